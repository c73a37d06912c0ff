package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "canteen/internal/adapters/email"
	"canteen/internal/adapters/storage"
	accountStore "canteen/internal/adapters/storage/account"
	announcementStore "canteen/internal/adapters/storage/announcement"
	menuItemStore "canteen/internal/adapters/storage/menuitem"
	preferenceStore "canteen/internal/adapters/storage/preference"
	profileStore "canteen/internal/adapters/storage/profile"
	"canteen/internal/devbackend"
)

func main() {
	dbPath := envOrDefault("CANTEEN_DB", "canteen.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	stores := devbackend.Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		ProfileStore:      profileStore.NewSQLiteStore(db),
		PreferenceStore:   preferenceStore.NewSQLiteStore(db),
		MenuItemStore:     menuItemStore.NewSQLiteStore(db),
		AnnouncementStore: announcementStore.NewSQLiteStore(db),
	}

	// Configure email sender for the signup welcome message
	var sender emailPkg.Sender
	resendKey := os.Getenv("CANTEEN_RESEND_KEY")
	emailFrom := envOrDefault("CANTEEN_RESEND_FROM", "College Canteen <noreply@canteen.example>")
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop; set CANTEEN_RESEND_KEY for real delivery)")
	}

	anonKey := envOrDefault("CANTEEN_ANON_KEY", "local-dev-anon-key")
	srv := devbackend.NewServer(stores, sender, anonKey)

	// Seed the menu reference and, optionally, a staff account
	staffEmail := os.Getenv("CANTEEN_STAFF_EMAIL")
	staffPassword := os.Getenv("CANTEEN_STAFF_PASSWORD")
	if err := srv.Seed(context.Background(), staffEmail, staffPassword); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	addr := envOrDefault("CANTEEN_BACKEND_ADDR", ":9090")
	log.Printf("Canteen backend starting on %s (db=%s)", addr, dbPath)

	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
