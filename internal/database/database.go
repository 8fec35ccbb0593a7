// /internal/database/database.go
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericoliveiras/tienda-virtual/internal/config"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
	"github.com/ericoliveiras/tienda-virtual/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

// Connect abre a conexão com o banco configurado (Postgres em produção,
// SQLite em desenvolvimento e nos testes).
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("driver de banco não suportado: %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logger, slowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados (%s): %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite não aceita escritas concorrentes; uma conexão evita "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Info("conexão com o banco de dados estabelecida", "driver", cfg.DBDriver)
	return db, nil
}

// sqliteDSN liga as chaves estrangeiras, desligadas por padrão no SQLite;
// sem isso o ON DELETE CASCADE dos destaques não acontece.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate cria ou atualiza as tabelas da loja.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Product{}, &model.FeaturedItem{}, &model.Reservation{}); err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}
	return nil
}

// Ping verifica se a conexão continua ativa.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
