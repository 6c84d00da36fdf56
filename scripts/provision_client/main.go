// Command provision_client inserts or updates a tenant row in the
// control-plane clients table. Client accounts are provisioned out of
// band; the API has no endpoint for it.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		clientID      string
		clientName    string
		status        string
		trialDays     int
		ownerPassword string
		timeout       time.Duration
	)

	flag.StringVar(&clientID, "id", "", "Client id (generated when empty)")
	flag.StringVar(&clientName, "name", "", "Display name of the client")
	flag.StringVar(&status, "status", "TRIAL", "Subscription status: TRIAL, PAID or EXPIRED")
	flag.IntVar(&trialDays, "trial-days", 14, "Trial length in days (TRIAL status only, 0 for open-ended)")
	flag.StringVar(&ownerPassword, "owner-password", "", "Owner login password (required)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Database operation timeout")
	flag.Parse()

	if clientName == "" || ownerPassword == "" {
		flag.Usage()
		os.Exit(2)
	}

	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "TRIAL", "PAID", "EXPIRED":
	default:
		log.Fatalf("invalid status %q", status)
	}

	if clientID == "" {
		clientID = uuid.NewString()
	}

	_ = godotenv.Load()
	dsn := os.Getenv("CONTROL_DB_URL")
	if dsn == "" {
		log.Fatal("CONTROL_DB_URL is not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to control database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash owner password: %v", err)
	}

	var trialEnd *time.Time
	if status == "TRIAL" && trialDays > 0 {
		end := time.Now().UTC().AddDate(0, 0, trialDays)
		trialEnd = &end
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := upsertClient(ctx, db, clientID, clientName, status, trialEnd, string(hash)); err != nil {
		log.Fatalf("failed to provision client: %v", err)
	}

	fmt.Printf("Provisioned client %s (%s), status %s", clientID, clientName, status)
	if trialEnd != nil {
		fmt.Printf(", trial ends %s", trialEnd.Format("2006-01-02"))
	}
	fmt.Println()
}

func upsertClient(ctx context.Context, db *sqlx.DB, id, name, status string, trialEnd *time.Time, passwordHash string) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `
		INSERT INTO clients (id, client_name, subscription_status, trial_end_date, owner_password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			client_name = EXCLUDED.client_name,
			subscription_status = EXCLUDED.subscription_status,
			trial_end_date = EXCLUDED.trial_end_date,
			owner_password_hash = EXCLUDED.owner_password_hash,
			updated_at = EXCLUDED.updated_at`,
		id, name, status, trialEnd, passwordHash, now)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
