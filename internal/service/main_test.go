package service

import (
	"sync"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema. A single
// connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type published struct {
	channel ws.Channel
	event   ws.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(channel ws.Channel, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{channel, event})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func seedTable(t *testing.T, db *gorm.DB, number int) *model.Table {
	t.Helper()
	table := &model.Table{Number: number, Capacity: 4, State: model.TableAvailable}
	require.NoError(t, db.Create(table).Error)
	return table
}

func seedProduct(t *testing.T, db *gorm.DB, name string, kind model.ProductType, price int64, stock *int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:  name,
		Type:  kind,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
	require.NoError(t, product.Validate())
	require.NoError(t, db.Create(product).Error)
	return product
}

func intPtr(n int) *int { return &n }
