package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	jwtExpiry      = 7 * 24 * time.Hour // 7 days
	bcryptCost     = 12
	minPasswordLen = 4
	minUsernameLen = 2
	maxUsernameLen = 16
	loginBurst     = 10
	loginEvery     = 6 * time.Second // refill: 10 attempts per minute
	defaultRank    = "member"
)

var (
	errBadCredentials = errors.New("invalid username or password")
	errLoginRate      = errors.New("too many login attempts, try again later")
)

// Auth verifies ranked accounts and issues session tokens
type Auth struct {
	db        *DB
	jwtSecret []byte
	cost      int

	rateMu   sync.Mutex
	limiters map[string]*rate.Limiter // IP -> login attempts
}

// NewAuth creates a new Auth handler
func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		cost:      bcryptCost,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// CreateAccount provisions a ranked account
func (a *Auth) CreateAccount(username, password, rank string) error {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if rank == "" {
		rank = defaultRank
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := a.db.CreateAccount(username, string(hash), rank); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// Login checks a password and returns the account's rank and a fresh JWT
func (a *Auth) Login(username, password, ip string) (string, string, error) {
	if !a.allow(ip) {
		return "", "", errLoginRate
	}

	acct, err := a.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		return "", "", fmt.Errorf("database error")
	}
	if acct == nil {
		return "", "", errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PassHash), []byte(password)); err != nil {
		return "", "", errBadCredentials
	}

	token, err := a.generateToken(acct.Username, acct.Rank)
	if err != nil {
		return "", "", fmt.Errorf("internal error")
	}
	return acct.Rank, token, nil
}

// ValidateToken validates a JWT and returns (username, rank, error)
func (a *Auth) ValidateToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}
	username, ok := claims["usr"].(string)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	rank, ok := claims["rank"].(string)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	return username, rank, nil
}

func (a *Auth) generateToken(username, rank string) (string, error) {
	claims := jwt.MapClaims{
		"usr":  username,
		"rank": rank,
		"exp":  time.Now().Add(jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) allow(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()
	l, ok := a.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(loginEvery), loginBurst)
		a.limiters[ip] = l
	}
	return l.Allow()
}

// GenerateGuestName creates a guest name like "Guest_a3f2c1"
func GenerateGuestName() string {
	b := make([]byte, 3)
	rand.Read(b)
	return "Guest_" + hex.EncodeToString(b)
}
