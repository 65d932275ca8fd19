package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/pkg/config"
)

// schemaStatements DDL idempotente, se ejecuta en orden en cada arranque.
// Evolución forward-only: las tablas se crean con su forma original y las
// columnas agregadas después van como ALTER TABLE ... ADD COLUMN IF NOT EXISTS.
// No hay versionado ni rollback.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS optics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		optic_id TEXT NOT NULL REFERENCES optics(id),
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		is_approved BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS reset_token TEXT`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS reset_token_expires TIMESTAMPTZ`,

	`CREATE TABLE IF NOT EXISTS registration_requests (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		optic_name TEXT NOT NULL,
		optic_address TEXT NOT NULL DEFAULT '',
		optic_phone TEXT NOT NULL DEFAULT '',
		optic_email TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		admin_notes TEXT NOT NULL DEFAULT '',
		reviewed_by TEXT,
		reviewed_at TIMESTAMPTZ,
		user_id TEXT,
		optic_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		optic_id TEXT NOT NULL REFERENCES optics(id),
		dni TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	// DNI único por óptica solo cuando está presente y el cliente sigue activo.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_optic_dni
		ON clients (optic_id, dni)
		WHERE dni IS NOT NULL AND deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_clients_optic ON clients (optic_id)`,

	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		optic_id TEXT NOT NULL REFERENCES optics(id),
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_url TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_products_optic ON products (optic_id)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		optic_id TEXT NOT NULL REFERENCES optics(id),
		client_id TEXT REFERENCES clients(id),
		unregistered_client_name TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		sale_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		notes TEXT NOT NULL DEFAULT '',
		od_sphere NUMERIC(6,2),
		od_cylinder NUMERIC(6,2),
		od_axis INTEGER,
		od_addition NUMERIC(6,2),
		oi_sphere NUMERIC(6,2),
		oi_cylinder NUMERIC(6,2),
		oi_axis INTEGER,
		oi_addition NUMERIC(6,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_optic ON sales (optic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_client ON sales (client_id)`,

	`CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id TEXT REFERENCES products(id) ON DELETE SET NULL,
		unregistered_product_name TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		total_price NUMERIC(12,2) NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	// Receta opcional por línea, agregada después del esquema inicial.
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS od_sphere NUMERIC(6,2)`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS od_cylinder NUMERIC(6,2)`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS od_axis INTEGER`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS od_addition NUMERIC(6,2)`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS oi_sphere NUMERIC(6,2)`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS oi_cylinder NUMERIC(6,2)`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS oi_axis INTEGER`,
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS oi_addition NUMERIC(6,2)`,
	// Orden de las líneas tal como las envió el caller; los UUID no lo preservan.
	`ALTER TABLE sale_items ADD COLUMN IF NOT EXISTS line_no INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id)`,

	`CREATE TABLE IF NOT EXISTS deletion_logs (
		id TEXT PRIMARY KEY,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		deleted_by TEXT NOT NULL,
		deleted_data JSONB,
		reason TEXT NOT NULL DEFAULT '',
		deleted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deletion_logs_table ON deletion_logs (table_name, record_id)`,
}

// SyncSchema ejecuta el DDL idempotente. Seguro de correr en cada boot.
func SyncSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("sync schema: %w", err)
		}
	}
	return nil
}

// Bootstrap garantiza que exista al menos una óptica y un usuario admin aprobado.
// El password por defecto viene de la configuración y se hashea con bcrypt.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool, cfg config.BootstrapConfig) error {
	var adminCount int
	err := pool.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE role = $1`, domain.RoleAdmin,
	).Scan(&adminCount)
	if err != nil {
		return fmt.Errorf("bootstrap: contar admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	now := time.Now()

	var opticID string
	err = pool.QueryRow(ctx,
		`SELECT id FROM optics WHERE name = $1`, cfg.OpticName,
	).Scan(&opticID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bootstrap: buscar óptica por defecto: %w", err)
		}
		opticID = uuid.New().String()
		if _, err := pool.Exec(ctx,
			`INSERT INTO optics (id, name, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
			opticID, cfg.OpticName, now,
		); err != nil {
			return fmt.Errorf("bootstrap: crear óptica por defecto: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap: hashear password admin: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO users (id, optic_id, username, email, password_hash, role, is_approved, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, true, $7, $7)
		 ON CONFLICT (username) DO NOTHING`,
		uuid.New().String(), opticID, cfg.AdminUsername, cfg.AdminEmail, string(hash), domain.RoleAdmin, now,
	); err != nil {
		return fmt.Errorf("bootstrap: crear usuario admin: %w", err)
	}
	return nil
}
