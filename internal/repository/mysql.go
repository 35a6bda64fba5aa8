package repository

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL opens a MySQL connection pool and verifies it with a
// ping, grounded on the teacher pack's database/sql + go-sql-driver
// connection style. The caller owns the returned *sql.DB and is
// responsible for closing it.
func OpenMySQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: opening mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("repository: pinging mysql: %w", err)
	}
	return db, nil
}

// MySQLIpBansRepository is the optional durable IpBansRepository
// backend, selected when MYSQL_DSN is configured. Schema:
//
//	CREATE TABLE ip_bans (
//	  ip VARCHAR(45) PRIMARY KEY,
//	  created_at DATETIME NOT NULL,
//	  expiration DATETIME NULL,
//	  reason VARCHAR(255) NULL
//	)
type MySQLIpBansRepository struct {
	db *sql.DB
}

// NewMySQLIpBansRepository wraps an open *sql.DB.
func NewMySQLIpBansRepository(db *sql.DB) *MySQLIpBansRepository {
	return &MySQLIpBansRepository{db: db}
}

func (r *MySQLIpBansRepository) AddBan(ip net.IP, duration *time.Duration, reason *string) (*IpBanData, error) {
	existing, err := r.IsBanned(ip)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var exp *time.Time
	if duration != nil {
		t := now.Add(*duration)
		exp = &t
	}

	if existing != nil {
		if sameExpiration(existing.Expiration, exp) && sameReason(existing.Reason, reason) {
			return existing, nil
		}
		_, err := r.db.Exec(`UPDATE ip_bans SET expiration = ?, reason = ? WHERE ip = ?`, exp, reason, ip.String())
		if err != nil {
			return nil, fmt.Errorf("repository: updating ip ban: %w", err)
		}
		return &IpBanData{IP: ip, CreatedAt: existing.CreatedAt, Expiration: exp, Reason: reason}, nil
	}

	_, err = r.db.Exec(`INSERT INTO ip_bans (ip, created_at, expiration, reason) VALUES (?, ?, ?, ?)`,
		ip.String(), now, exp, reason)
	if err != nil {
		return nil, fmt.Errorf("repository: inserting ip ban: %w", err)
	}
	return &IpBanData{IP: ip, CreatedAt: now, Expiration: exp, Reason: reason}, nil
}

func (r *MySQLIpBansRepository) IsBanned(ip net.IP) (*IpBanData, error) {
	row := r.db.QueryRow(`SELECT created_at, expiration, reason FROM ip_bans WHERE ip = ?`, ip.String())

	var createdAt time.Time
	var expiration sql.NullTime
	var reason sql.NullString
	if err := row.Scan(&createdAt, &expiration, &reason); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: querying ip ban: %w", err)
	}

	data := &IpBanData{IP: ip, CreatedAt: createdAt}
	if expiration.Valid {
		data.Expiration = &expiration.Time
	}
	if reason.Valid {
		data.Reason = &reason.String
	}

	if expired(data.Expiration) {
		if _, err := r.db.Exec(`DELETE FROM ip_bans WHERE ip = ?`, ip.String()); err != nil {
			return nil, fmt.Errorf("repository: purging expired ip ban: %w", err)
		}
		return nil, nil
	}
	return data, nil
}

func (r *MySQLIpBansRepository) RemoveBan(ip net.IP) (*IpBanData, error) {
	data, err := r.IsBanned(ip)
	if err != nil || data == nil {
		return nil, err
	}
	if _, err := r.db.Exec(`DELETE FROM ip_bans WHERE ip = ?`, ip.String()); err != nil {
		return nil, fmt.Errorf("repository: deleting ip ban: %w", err)
	}
	return data, nil
}

func (r *MySQLIpBansRepository) GetBans() ([]IpBanData, error) {
	rows, err := r.db.Query(`SELECT ip, created_at, expiration, reason FROM ip_bans`)
	if err != nil {
		return nil, fmt.Errorf("repository: listing ip bans: %w", err)
	}
	defer rows.Close()

	var out []IpBanData
	for rows.Next() {
		var ipText string
		var createdAt time.Time
		var expiration sql.NullTime
		var reason sql.NullString
		if err := rows.Scan(&ipText, &createdAt, &expiration, &reason); err != nil {
			return nil, fmt.Errorf("repository: scanning ip ban: %w", err)
		}
		data := IpBanData{IP: net.ParseIP(ipText), CreatedAt: createdAt}
		if expiration.Valid {
			data.Expiration = &expiration.Time
		}
		if reason.Valid {
			data.Reason = &reason.String
		}
		if !expired(data.Expiration) {
			out = append(out, data)
		}
	}
	return out, rows.Err()
}

// MySQLUserBansRepository is UserBansRepository's MySQL-backed
// implementation. Schema:
//
//	CREATE TABLE user_bans (
//	  username VARCHAR(16) PRIMARY KEY,
//	  created_at DATETIME NOT NULL,
//	  expiration DATETIME NULL,
//	  reason VARCHAR(255) NULL
//	)
type MySQLUserBansRepository struct {
	db *sql.DB
}

// NewMySQLUserBansRepository wraps an open *sql.DB.
func NewMySQLUserBansRepository(db *sql.DB) *MySQLUserBansRepository {
	return &MySQLUserBansRepository{db: db}
}

func (r *MySQLUserBansRepository) AddBan(username string, duration *time.Duration, reason *string) (*UserBanData, error) {
	existing, err := r.IsBanned(username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var exp *time.Time
	if duration != nil {
		t := now.Add(*duration)
		exp = &t
	}

	if existing != nil {
		if sameExpiration(existing.Expiration, exp) && sameReason(existing.Reason, reason) {
			return existing, nil
		}
		_, err := r.db.Exec(`UPDATE user_bans SET expiration = ?, reason = ? WHERE username = ?`, exp, reason, username)
		if err != nil {
			return nil, fmt.Errorf("repository: updating user ban: %w", err)
		}
		return &UserBanData{Username: username, CreatedAt: existing.CreatedAt, Expiration: exp, Reason: reason}, nil
	}

	_, err = r.db.Exec(`INSERT INTO user_bans (username, created_at, expiration, reason) VALUES (?, ?, ?, ?)`,
		username, now, exp, reason)
	if err != nil {
		return nil, fmt.Errorf("repository: inserting user ban: %w", err)
	}
	return &UserBanData{Username: username, CreatedAt: now, Expiration: exp, Reason: reason}, nil
}

func (r *MySQLUserBansRepository) IsBanned(username string) (*UserBanData, error) {
	row := r.db.QueryRow(`SELECT created_at, expiration, reason FROM user_bans WHERE username = ?`, username)

	var createdAt time.Time
	var expiration sql.NullTime
	var reason sql.NullString
	if err := row.Scan(&createdAt, &expiration, &reason); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: querying user ban: %w", err)
	}

	data := &UserBanData{Username: username, CreatedAt: createdAt}
	if expiration.Valid {
		data.Expiration = &expiration.Time
	}
	if reason.Valid {
		data.Reason = &reason.String
	}

	if expired(data.Expiration) {
		if _, err := r.db.Exec(`DELETE FROM user_bans WHERE username = ?`, username); err != nil {
			return nil, fmt.Errorf("repository: purging expired user ban: %w", err)
		}
		return nil, nil
	}
	return data, nil
}

func (r *MySQLUserBansRepository) RemoveBan(username string) (*UserBanData, error) {
	data, err := r.IsBanned(username)
	if err != nil || data == nil {
		return nil, err
	}
	if _, err := r.db.Exec(`DELETE FROM user_bans WHERE username = ?`, username); err != nil {
		return nil, fmt.Errorf("repository: deleting user ban: %w", err)
	}
	return data, nil
}

func (r *MySQLUserBansRepository) GetBans() ([]UserBanData, error) {
	rows, err := r.db.Query(`SELECT username, created_at, expiration, reason FROM user_bans`)
	if err != nil {
		return nil, fmt.Errorf("repository: listing user bans: %w", err)
	}
	defer rows.Close()

	var out []UserBanData
	for rows.Next() {
		var username string
		var createdAt time.Time
		var expiration sql.NullTime
		var reason sql.NullString
		if err := rows.Scan(&username, &createdAt, &expiration, &reason); err != nil {
			return nil, fmt.Errorf("repository: scanning user ban: %w", err)
		}
		data := UserBanData{Username: username, CreatedAt: createdAt}
		if expiration.Valid {
			data.Expiration = &expiration.Time
		}
		if reason.Valid {
			data.Reason = &reason.String
		}
		if !expired(data.Expiration) {
			out = append(out, data)
		}
	}
	return out, rows.Err()
}

// MySQLWhitelistRepository is WhitelistRepository's MySQL-backed
// implementation, delegating the enabled flag to a KeyValueRepository
// exactly as the in-memory backend does. Schema:
//
//	CREATE TABLE whitelist (
//	  username VARCHAR(16) PRIMARY KEY,
//	  created_at DATETIME NOT NULL
//	)
type MySQLWhitelistRepository struct {
	db *sql.DB
	kv KeyValueRepository
}

// NewMySQLWhitelistRepository wraps an open *sql.DB and a
// KeyValueRepository for the enabled flag.
func NewMySQLWhitelistRepository(db *sql.DB, kv KeyValueRepository) *MySQLWhitelistRepository {
	return &MySQLWhitelistRepository{db: db, kv: kv}
}

func (r *MySQLWhitelistRepository) Add(username string) (WhitelistResult, error) {
	whitelisted, err := r.IsWhitelisted(username)
	if err != nil {
		return WhitelistUnchanged, err
	}
	if whitelisted {
		return WhitelistUnchanged, nil
	}
	_, err = r.db.Exec(`INSERT INTO whitelist (username, created_at) VALUES (?, ?)`, username, time.Now().UTC())
	if err != nil {
		return WhitelistUnchanged, fmt.Errorf("repository: inserting whitelist entry: %w", err)
	}
	return WhitelistChanged, nil
}

func (r *MySQLWhitelistRepository) Remove(username string) (WhitelistResult, error) {
	result, err := r.db.Exec(`DELETE FROM whitelist WHERE username = ?`, username)
	if err != nil {
		return WhitelistUnchanged, fmt.Errorf("repository: deleting whitelist entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return WhitelistUnchanged, fmt.Errorf("repository: counting deleted whitelist entries: %w", err)
	}
	if rows == 0 {
		return WhitelistUnchanged, nil
	}
	return WhitelistChanged, nil
}

func (r *MySQLWhitelistRepository) IsWhitelisted(username string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM whitelist WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("repository: querying whitelist entry: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLWhitelistRepository) IsEnabled() (bool, error) {
	value, err := r.kv.Get(whitelistEnabledKey)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (r *MySQLWhitelistRepository) SetEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return r.kv.Set(whitelistEnabledKey, value)
}

func (r *MySQLWhitelistRepository) GetAll() ([]string, error) {
	rows, err := r.db.Query(`SELECT username FROM whitelist`)
	if err != nil {
		return nil, fmt.Errorf("repository: listing whitelist entries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("repository: scanning whitelist entry: %w", err)
		}
		out = append(out, username)
	}
	return out, rows.Err()
}

// MySQLKeyValueRepository is KeyValueRepository's MySQL-backed
// implementation. Schema:
//
//	CREATE TABLE kv_store (
//	  `key` VARCHAR(191) PRIMARY KEY,
//	  value TEXT NOT NULL,
//	  set_at DATETIME NOT NULL,
//	  ttl_seconds BIGINT NULL
//	)
type MySQLKeyValueRepository struct {
	db *sql.DB
}

// NewMySQLKeyValueRepository wraps an open *sql.DB.
func NewMySQLKeyValueRepository(db *sql.DB) *MySQLKeyValueRepository {
	return &MySQLKeyValueRepository{db: db}
}

func (r *MySQLKeyValueRepository) Get(key string) (string, error) {
	var value string
	var setAt time.Time
	var ttlSeconds sql.NullInt64
	row := r.db.QueryRow("SELECT value, set_at, ttl_seconds FROM kv_store WHERE `key` = ?", key)
	if err := row.Scan(&value, &setAt, &ttlSeconds); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("repository: querying kv entry: %w", err)
	}

	if ttlSeconds.Valid {
		ttl := time.Duration(ttlSeconds.Int64) * time.Second
		if time.Since(setAt) > ttl {
			if _, err := r.db.Exec("DELETE FROM kv_store WHERE `key` = ?", key); err != nil {
				return "", fmt.Errorf("repository: purging expired kv entry: %w", err)
			}
			return "", ErrNotFound
		}
	}
	return value, nil
}

func (r *MySQLKeyValueRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		"INSERT INTO kv_store (`key`, value, set_at) VALUES (?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE value = VALUES(value), set_at = VALUES(set_at)",
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("repository: setting kv entry: %w", err)
	}
	return nil
}

func (r *MySQLKeyValueRepository) GetTTL(key string) (*time.Duration, error) {
	var ttlSeconds sql.NullInt64
	err := r.db.QueryRow("SELECT ttl_seconds FROM kv_store WHERE `key` = ?", key).Scan(&ttlSeconds)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: querying kv ttl: %w", err)
	}
	if !ttlSeconds.Valid {
		return nil, nil
	}
	ttl := time.Duration(ttlSeconds.Int64) * time.Second
	return &ttl, nil
}

func (r *MySQLKeyValueRepository) SetTTL(key string, ttl time.Duration) error {
	result, err := r.db.Exec("UPDATE kv_store SET ttl_seconds = ? WHERE `key` = ?", int64(ttl.Seconds()), key)
	if err != nil {
		return fmt.Errorf("repository: setting kv ttl: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: confirming kv ttl update: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLKeyValueRepository) Delete(key string) error {
	_, err := r.db.Exec("DELETE FROM kv_store WHERE `key` = ?", key)
	if err != nil {
		return fmt.Errorf("repository: deleting kv entry: %w", err)
	}
	return nil
}
