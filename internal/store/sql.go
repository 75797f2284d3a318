package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiver/internal/api"
	"quiver/pkg/logging"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqlUser struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

func (sqlUser) TableName() string { return "user" }

type sqlChain struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"index"`
	Description string
	UserID      string         `gorm:"index"`
	Steps       []sqlChainStep `gorm:"foreignKey:ChainID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

func (sqlChain) TableName() string { return "chain" }

type sqlChainStep struct {
	ID         string `gorm:"primaryKey"`
	ChainID    string `gorm:"index"`
	StepNumber int
	AgentName  string
	PromptType string
	// Prompt holds the JSON encoded api.StepPrompt.
	Prompt string `gorm:"type:text"`
}

func (sqlChainStep) TableName() string { return "chain_step" }

// SQLStore keeps chains and users in PostgreSQL.
type SQLStore struct {
	db          *gorm.DB
	defaultUser string
}

// OpenSQLStore connects to dsn, migrates the schema and returns the store.
func OpenSQLStore(dsn, defaultUser string) (*SQLStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return NewSQLStore(db, defaultUser)
}

// NewSQLStore wraps an open gorm handle and migrates the schema.
func NewSQLStore(db *gorm.DB, defaultUser string) (*SQLStore, error) {
	if err := db.AutoMigrate(&sqlUser{}, &sqlChain{}, &sqlChainStep{}); err != nil {
		return nil, fmt.Errorf("failed to migrate chain schema: %w", err)
	}
	logging.Info("Store", "Connected to PostgreSQL chain store")
	return &SQLStore{db: db, defaultUser: defaultUser}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) SaveUser(ctx context.Context, email string) (string, error) {
	if id, err := s.GetUserID(ctx, email); err == nil {
		return id, nil
	} else if !api.IsNotFound(err) {
		return "", err
	}

	u := sqlUser{ID: uuid.NewString(), Email: strings.ToLower(email)}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return "", fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return u.ID, nil
}

// SaveChain replaces any chain with the same name and owner.
func (s *SQLStore) SaveChain(ctx context.Context, chain api.Chain) error {
	rec := sqlChain{
		ID:          uuid.NewString(),
		Name:        chain.Name,
		Description: chain.Description,
		UserID:      chain.Owner,
	}
	for _, step := range chain.Steps {
		prompt, err := json.Marshal(step.Prompt)
		if err != nil {
			return fmt.Errorf("failed to encode step %d of chain %s: %w", step.Step, chain.Name, err)
		}
		rec.Steps = append(rec.Steps, sqlChainStep{
			ID:         uuid.NewString(),
			StepNumber: step.Step,
			AgentName:  step.AgentName,
			PromptType: string(step.Prompt.Kind()),
			Prompt:     string(prompt),
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&sqlChain{}).
			Where("name = ? AND user_id = ?", chain.Name, chain.Owner).
			Pluck("id", &existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := tx.Where("chain_id IN ?", existing).Delete(&sqlChainStep{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", existing).Delete(&sqlChain{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&rec).Error
	})
}

func (s *SQLStore) GetUserID(ctx context.Context, user string) (string, error) {
	var u sqlUser
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(user)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", api.NewUserNotFoundError(user)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user %s: %w", user, err)
	}
	return u.ID, nil
}

func (s *SQLStore) GetChain(ctx context.Context, name string) (*api.Chain, error) {
	var rec sqlChain
	err := s.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number") }).
		Where("name = ?", name).
		Order("created_at").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.NewChainNotFoundError(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chain %s: %w", name, err)
	}

	chain := &api.Chain{
		Name:        rec.Name,
		Description: rec.Description,
		Owner:       rec.UserID,
	}
	for _, st := range rec.Steps {
		step := api.ChainStep{Step: st.StepNumber, AgentName: st.AgentName}
		if err := json.Unmarshal([]byte(st.Prompt), &step.Prompt); err != nil {
			return nil, fmt.Errorf("failed to decode step %d of chain %s: %w", st.StepNumber, name, err)
		}
		chain.Steps = append(chain.Steps, step)
	}
	return chain, nil
}

func (s *SQLStore) ListChainNames(ctx context.Context, ownerID string) ([]string, error) {
	var rows []sqlChain
	if err := s.db.WithContext(ctx).Select("name", "user_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	chains := make([]api.Chain, len(rows))
	for i, r := range rows {
		chains[i] = api.Chain{Name: r.Name, Owner: r.UserID}
	}
	own, global := partitionChains(chains, ownerID, globalOwnerID(ctx, s, s.defaultUser))
	return mergeChainNames(own, global), nil
}
