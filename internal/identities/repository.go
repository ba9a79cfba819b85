package identities

import (
	"context"
	"database/sql/driver"
	"net"

	"gorm.io/gorm"

	"github.com/brieflyai/backend/pkg/errors"
	"github.com/brieflyai/backend/pkg/models"
)

// Repository is the persistence layer for accounts and topics. All reads
// and writes are scoped to the request's context; transactional writes go
// through CreateAccount.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over the given gorm connection. The
// connection must be opened with TranslateError so uniqueness violations
// surface as gorm.ErrDuplicatedKey across drivers.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// storeError classifies an unexpected store failure. Connectivity-class
// errors are retryable and surface as DATABASE_ERROR; anything else
// (driver bugs, constraint faults other than the handled duplicates) is
// an internal fault the caller must not retry.
func storeError(err error) error {
	if isConnectivityError(err) {
		return errors.ErrDatabase.WithCause(err)
	}
	return errors.ErrInternal.WithCause(err)
}

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FindAccountByEmail looks up an account by its normalized email. Topics
// are deliberately NOT loaded; the authentication flow never needs them.
// A missing account is reported as (nil, nil), not an error.
func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &account, nil
}

// GetAccountByEmail loads an account together with its topics. The topics
// are fetched eagerly through a single follow-up query (gorm Preload);
// that extra query is part of this method's contract.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Preload("Topics").Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &account, nil
}

// GetOrCreateTopic resolves a topic label to its row, inserting it on
// first reference. Topic rows are committed independently of the account
// that referenced them: they are never deleted by this flow, so a row
// left behind by a registration that later fails is harmless. When a
// concurrent request inserts the same label first, the resulting
// uniqueness violation is resolved by re-reading the winner's row.
func (r *Repository) GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, error) {
	topic, err := r.findTopicByName(ctx, name)
	if err != nil || topic != nil {
		return topic, err
	}

	created := &models.Topic{Name: name}
	err = r.db.WithContext(ctx).Create(created).Error
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, storeError(err)
	}

	// Lost the insert race; the winner's row is exactly the one we wanted.
	topic, err = r.findTopicByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, errors.ErrInternal.Explain("topic %q vanished after duplicate insert", name)
	}
	return topic, nil
}

func (r *Repository) findTopicByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &topic, nil
}

// CreateAccount persists the account and its topic associations in one
// transaction. A uniqueness violation on commit means a concurrent
// registration won the race for the same email; the transaction is rolled
// back and the duplicate is reported.
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(account).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrDuplicateEmail.WithCause(err)
	}
	return storeError(err)
}

// CountAccounts returns the number of stored accounts. Test support.
func (r *Repository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return 0, storeError(err)
	}
	return count, nil
}
