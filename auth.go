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
)

const (
	tokenLifetime    = 7 * 24 * time.Hour
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var errBadCredentials = errors.New("invalid username or password")

// pilotClaims is the reattach token payload. A controller that drops mid-match
// presents this to resume its pilot identity.
type pilotClaims struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// Auth issues and validates pilot account credentials
type Auth struct {
	db        *DB
	jwtSecret []byte

	rateMu  sync.Mutex
	rateMap map[string]*loginWindow
}

type loginWindow struct {
	count   int
	resetAt time.Time
}

func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		rateMap:   make(map[string]*loginWindow),
	}
}

// loadOrCreateSecret keeps the signing secret in the settings table so tokens
// survive server restarts.
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

func validUsername(u string) bool {
	if len(u) < minUsernameLen || len(u) > maxUsernameLen {
		return false
	}
	for _, r := range u {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// Register creates a pilot account and returns its id and a reattach token
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if !validUsername(username) {
		return 0, "", fmt.Errorf("username must be %d-%d letters, digits or underscores", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	if exists, err := a.db.UsernameExists(username); err != nil {
		return 0, "", errors.New("database error")
	} else if exists {
		return 0, "", errors.New("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", errors.New("internal error")
	}
	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", errors.New("failed to create account")
	}
	return a.issueToken(id, username)
}

// Login checks a pilot's password and returns a fresh reattach token
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.allowAttempt(ip) {
		return 0, "", errors.New("too many login attempts, try again later")
	}

	pilot, err := a.db.GetPlayerByUsername(username)
	if err != nil {
		return 0, "", errors.New("database error")
	}
	if pilot == nil || pilot.PassHash == "" {
		return 0, "", errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(pilot.PassHash), []byte(password)) != nil {
		return 0, "", errBadCredentials
	}
	return a.issueToken(pilot.ID, pilot.Username)
}

// ValidateToken parses a reattach token and returns the pilot it names
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	var claims pilotClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid || claims.PlayerID == 0 || claims.Username == "" {
		return 0, "", errors.New("invalid token")
	}
	return claims.PlayerID, claims.Username, nil
}

func (a *Auth) issueToken(playerID int64, username string) (int64, string, error) {
	now := time.Now()
	claims := pilotClaims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return 0, "", errors.New("internal error")
	}
	return playerID, token, nil
}

// allowAttempt rate-limits login attempts per source IP
func (a *Auth) allowAttempt(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	win, ok := a.rateMap[ip]
	if !ok || now.After(win.resetAt) {
		a.rateMap[ip] = &loginWindow{count: 1, resetAt: now.Add(loginRateWindow)}
		return true
	}
	win.count++
	return win.count <= maxLoginAttempts
}

// GenerateGuestName creates a throwaway display name like "Guest_a3f2c1"
func GenerateGuestName() string {
	b := make([]byte, 3)
	rand.Read(b)
	return "Guest_" + hex.EncodeToString(b)
}
