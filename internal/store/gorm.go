package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Gorm stores boats and slips as rows in the "boats" and "slips" tables.
// jinzhu/gorm has no context support, so ctx is only checked before each call.
type Gorm struct {
	db *gorm.DB
}

// OpenPostgres connects to the database at uri and migrates the schema
func OpenPostgres(uri string, logger *zap.Logger) (*Gorm, error) {
	db, err := gorm.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newGorm(db, logger)
}

// OpenSQLite opens a pure-Go SQLite database at path (":memory:" works too)
func OpenSQLite(path string, logger *zap.Logger) (*Gorm, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a second connection to ":memory:" would see an empty database
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open("sqlite3", sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return newGorm(db, logger)
}

func newGorm(db *gorm.DB, logger *zap.Logger) (*Gorm, error) {
	if logger != nil {
		db.SetLogger(gormLogger{logger.Named("gorm").Sugar()})
	}
	if err := db.AutoMigrate(&types.Boat{}, &types.Slip{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Gorm{db: db}, nil
}

type gormLogger struct {
	*zap.SugaredLogger
}

func (l gormLogger) Print(v ...interface{}) {
	l.Debug(v...)
}

func (g *Gorm) ListBoats(ctx context.Context) ([]types.Boat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boats := []types.Boat{}
	if err := g.db.Order("id asc").Find(&boats).Error; err != nil {
		return nil, fmt.Errorf("list boats: %w", err)
	}
	return boats, nil
}

func (g *Gorm) GetBoat(ctx context.Context, id int64) (*types.Boat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b types.Boat
	if err := g.db.Where("id = ?", id).First(&b).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get boat %d: %w", id, err)
	}
	return &b, nil
}

func (g *Gorm) CreateBoat(ctx context.Context, b *types.Boat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.ID = 0
	if err := g.db.Create(b).Error; err != nil {
		return fmt.Errorf("create boat: %w", err)
	}
	return nil
}

func (g *Gorm) SaveBoat(ctx context.Context, b *types.Boat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := g.db.Model(&types.Boat{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":   b.Name,
		"type":   b.Type,
		"length": b.Length,
	})
	if res.Error != nil {
		return fmt.Errorf("save boat %d: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) DeleteBoat(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := g.db.Where("id = ?", id).Delete(&types.Boat{})
	if res.Error != nil {
		return fmt.Errorf("delete boat %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ListSlips(ctx context.Context) ([]types.Slip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slips := []types.Slip{}
	if err := g.db.Order("id asc").Find(&slips).Error; err != nil {
		return nil, fmt.Errorf("list slips: %w", err)
	}
	return slips, nil
}

func (g *Gorm) GetSlip(ctx context.Context, id int64) (*types.Slip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var s types.Slip
	if err := g.db.Where("id = ?", id).First(&s).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slip %d: %w", id, err)
	}
	return &s, nil
}

func (g *Gorm) CreateSlip(ctx context.Context, s *types.Slip) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.ID = 0
	s.CurrentBoat = nil
	if err := g.db.Create(s).Error; err != nil {
		return fmt.Errorf("create slip: %w", err)
	}
	return nil
}

// setCurrentBoat runs the conditional update and reports how many slips matched
func (g *Gorm) setCurrentBoat(value *gorm.SqlExpr, where string, args ...interface{}) (int64, error) {
	res := g.db.Model(&types.Slip{}).Where(where, args...).UpdateColumn("current_boat", value)
	return res.RowsAffected, res.Error
}

// missingOr tells a failed condition apart from a slip that no longer exists
func (g *Gorm) missingOr(slipID int64, err error) error {
	var count int
	if cerr := g.db.Model(&types.Slip{}).Where("id = ?", slipID).Count(&count).Error; cerr != nil {
		return fmt.Errorf("count slip %d: %w", slipID, cerr)
	}
	if count == 0 {
		return ErrNotFound
	}
	return err
}

func (g *Gorm) AssignSlip(ctx context.Context, slipID, boatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := g.setCurrentBoat(gorm.Expr("?", boatID), "id = ? AND current_boat IS NULL", slipID)
	if err != nil {
		return fmt.Errorf("assign slip %d: %w", slipID, err)
	}
	if n == 0 {
		return g.missingOr(slipID, ErrConflict)
	}
	return nil
}

func (g *Gorm) ReleaseSlip(ctx context.Context, slipID, boatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := g.setCurrentBoat(gorm.Expr("NULL"), "id = ? AND current_boat = ?", slipID, boatID)
	if err != nil {
		return fmt.Errorf("release slip %d: %w", slipID, err)
	}
	if n == 0 {
		return g.missingOr(slipID, ErrConflict)
	}
	return nil
}

func (g *Gorm) ClearSlip(ctx context.Context, slipID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := g.setCurrentBoat(gorm.Expr("NULL"), "id = ?", slipID)
	if err != nil {
		return fmt.Errorf("clear slip %d: %w", slipID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ClearBoatFromSlips(ctx context.Context, boatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := g.setCurrentBoat(gorm.Expr("NULL"), "current_boat = ?", boatID); err != nil {
		return fmt.Errorf("clear boat %d from slips: %w", boatID, err)
	}
	return nil
}

func (g *Gorm) Ping(ctx context.Context) error {
	return g.db.DB().PingContext(ctx)
}

func (g *Gorm) Close() error {
	return g.db.Close()
}
