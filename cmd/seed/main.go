// Command seed loads fixture data from JSON files into Postgres. It is
// meant for local development and demo environments; the -destroy flag
// empties every table it knows about.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	database "github.com/sarayu-iot/admin-api/internal/db"
	"github.com/sarayu-iot/admin-api/internal/pkg/config"
)

type adminSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type companySeed struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Address     string `json:"address"`
	Label       string `json:"label"`
}

type managerSeed struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type employeeSeed struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	HeaderOne   string `json:"headerOne"`
	HeaderTwo   string `json:"headerTwo"`
}

type deviceSeed struct {
	Device string `json:"device"`
}

type topicSeed struct {
	Topic string `json:"topic"`
	Label string `json:"label"`
}

func main() {
	var (
		dataDir   = flag.String("data", "./data", "directory holding the seed JSON files")
		admins    = flag.Bool("admins", false, "seed admin accounts")
		companies = flag.Bool("companies", false, "seed companies")
		managers  = flag.Bool("managers", false, "seed managers (requires companies)")
		employees = flag.Bool("employees", false, "seed employees (requires managers)")
		tags      = flag.Bool("tags", false, "seed devices and topics")
		all       = flag.Bool("all", false, "seed everything in dependency order")
		destroy   = flag.Bool("destroy", false, "delete all seeded data")
	)
	flag.Parse()

	if err := run(*dataDir, *admins, *companies, *managers, *employees, *tags, *all, *destroy); err != nil {
		log.Fatal(err)
	}
}

func run(dataDir string, admins, companies, managers, employees, tags, all, destroy bool) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return err
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx := context.Background()
	if !database.WaitForDB(ctx, pool, logger) {
		return fmt.Errorf("database is not reachable")
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return err
	}

	s := &seeder{pool: pool, logger: logger, dataDir: dataDir}

	if destroy {
		return s.destroyAll(ctx)
	}

	ran := false
	steps := []struct {
		enabled bool
		name    string
		fn      func(context.Context) error
	}{
		{admins || all, "admins", s.seedAdmins},
		{companies || all, "companies", s.seedCompanies},
		{managers || all, "managers", s.seedManagers},
		{employees || all, "employees", s.seedEmployees},
		{tags || all, "tags", s.seedTags},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		ran = true
		if err := step.fn(ctx); err != nil {
			return errors.Wrapf(err, "seeding %s", step.name)
		}
		logger.Info("Seeded successfully", zap.String("dataset", step.name))
	}

	if !ran {
		flag.Usage()
	}
	return nil
}

type seeder struct {
	pool    *pgxpool.Pool
	logger  *zap.Logger
	dataDir string
}

func loadJSON[T any](dir, file string) ([]T, error) {
	raw, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", file)
	}
	return out, nil
}

func (s *seeder) seedAdmins(ctx context.Context) error {
	rows, err := loadJSON[adminSeed](s.dataDir, "admin-data.json")
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, row := range rows {
		g.Go(func() error {
			hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = s.pool.Exec(gctx, `
				INSERT INTO users (name, email, password_hash, role)
				VALUES ($1, $2, $3, 'admin')
				ON CONFLICT (email) DO NOTHING`,
				row.Name, row.Email, string(hash))
			return err
		})
	}
	return g.Wait()
}

func (s *seeder) seedCompanies(ctx context.Context) error {
	rows, err := loadJSON[companySeed](s.dataDir, "company-data.json")
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, row := range rows {
		g.Go(func() error {
			_, err := s.pool.Exec(gctx, `
				INSERT INTO companies (name, email, phone_number, address, label)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (name) DO NOTHING`,
				row.Name, row.Email, row.PhoneNumber, row.Address, row.Label)
			return err
		})
	}
	return g.Wait()
}

// seedManagers distributes managers across the existing companies
// round-robin, so the fixture files never carry database ids.
func (s *seeder) seedManagers(ctx context.Context) error {
	rows, err := loadJSON[managerSeed](s.dataDir, "manager-data.json")
	if err != nil {
		return err
	}

	companyIDs, err := s.collectIDs(ctx, "SELECT id FROM companies ORDER BY created_at")
	if err != nil {
		return err
	}
	if len(companyIDs) == 0 {
		return fmt.Errorf("no companies found, seed companies first")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		companyID := companyIDs[i%len(companyIDs)]
		g.Go(func() error {
			hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = s.pool.Exec(gctx, `
				INSERT INTO managers (name, email, phone_number, password_hash, company_id)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (email) DO NOTHING`,
				row.Name, row.Email, row.PhoneNumber, string(hash), companyID)
			return err
		})
	}
	return g.Wait()
}

// seedEmployees assigns each employee to a manager round-robin and
// inherits the manager's company.
func (s *seeder) seedEmployees(ctx context.Context) error {
	rows, err := loadJSON[employeeSeed](s.dataDir, "employee-data.json")
	if err != nil {
		return err
	}

	type managerRow struct {
		id        uuid.UUID
		companyID uuid.UUID
	}
	dbRows, err := s.pool.Query(ctx, "SELECT id, company_id FROM managers ORDER BY created_at")
	if err != nil {
		return err
	}
	defer dbRows.Close()

	var managerRows []managerRow
	for dbRows.Next() {
		var m managerRow
		if err := dbRows.Scan(&m.id, &m.companyID); err != nil {
			return err
		}
		managerRows = append(managerRows, m)
	}
	if err := dbRows.Err(); err != nil {
		return err
	}
	if len(managerRows) == 0 {
		return fmt.Errorf("no managers found, seed managers first")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		mgr := managerRows[i%len(managerRows)]
		g.Go(func() error {
			hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = s.pool.Exec(gctx, `
				INSERT INTO employees (name, email, phone_number, password_hash, company_id, manager_id, header_one, header_two)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (email) DO NOTHING`,
				row.Name, row.Email, row.PhoneNumber, string(hash),
				mgr.companyID, mgr.id, row.HeaderOne, row.HeaderTwo)
			return err
		})
	}
	return g.Wait()
}

func (s *seeder) seedTags(ctx context.Context) error {
	devices, err := loadJSON[deviceSeed](s.dataDir, "device-data.json")
	if err != nil {
		return err
	}
	topics, err := loadJSON[topicSeed](s.dataDir, "topics-data.json")
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, row := range devices {
		g.Go(func() error {
			_, err := s.pool.Exec(gctx, `
				INSERT INTO devices (device) VALUES ($1)
				ON CONFLICT (device) DO NOTHING`, row.Device)
			return err
		})
	}
	for _, row := range topics {
		g.Go(func() error {
			_, err := s.pool.Exec(gctx, `
				INSERT INTO topics (topic, label) VALUES ($1, $2)
				ON CONFLICT (topic, label) DO NOTHING`, row.Topic, row.Label)
			return err
		})
	}
	return g.Wait()
}

func (s *seeder) destroyAll(ctx context.Context) error {
	// Dependents first so foreign keys never block the truncate.
	tables := []string{"employee_topics", "employees", "supervisors", "managers", "companies", "topics", "devices", "users"}
	for _, table := range tables {
		if _, err := s.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
		s.logger.Info("Cleared table", zap.String("table", table))
	}
	return nil
}

func (s *seeder) collectIDs(ctx context.Context, query string) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
