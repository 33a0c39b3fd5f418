package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/config"
)

var (
	// ErrMissingToken は Authorization ヘッダーが無い場合のエラーです。
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken は署名・形式・クレームが不正な場合のエラーです。
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired は有効期限切れのエラーです。
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrNoActor はコンテキストに操作者が無い場合のエラーです。
	ErrNoActor = errors.New("auth: no actor in context")
)

// Claims はポータルが発行する JWT のクレームです。
type Claims struct {
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer は HS256 でトークンに署名します。
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer は auth 設定から Issuer を生成します。
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: cfg.TokenTTL, now: time.Now}
}

// Issue は操作者のトークンを発行します。
func (i *Issuer) Issue(actor workflow.Actor) (string, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return "", fmt.Errorf("auth: actor id is required: %w", ErrInvalidToken)
	}
	if !actor.Role.Valid() {
		return "", fmt.Errorf("auth: role %q: %w", actor.Role, workflow.ErrUnknownRole)
	}
	if actor.Role == workflow.RoleEmployee && actor.EmployeeID == "" {
		return "", fmt.Errorf("auth: employee token requires employee_id: %w", ErrInvalidToken)
	}

	now := i.now()
	claims := Claims{
		Role:       string(actor.Role),
		EmployeeID: actor.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verifier はトークンを検証して操作者を取り出します。
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier は auth 設定から Verifier を生成します。
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Verify は署名方式・発行者・有効期限を検証し、workflow.Actor を返します。
func (v *Verifier) Verify(raw string) (workflow.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return workflow.Actor{}, ErrTokenExpired
		}
		return workflow.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, err := workflow.ParseRole(claims.Role)
	if err != nil {
		return workflow.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return workflow.Actor{}, fmt.Errorf("%w: subject is empty", ErrInvalidToken)
	}
	if role == workflow.RoleEmployee && claims.EmployeeID == "" {
		return workflow.Actor{}, fmt.Errorf("%w: employee_id is empty", ErrInvalidToken)
	}

	return workflow.Actor{ID: claims.Subject, Role: role, EmployeeID: claims.EmployeeID}, nil
}

// BearerToken は "Bearer <token>" 形式のヘッダー値からトークンを取り出します。
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

type actorContextKey struct{}

// WithActor は操作者をコンテキストに格納します。
func WithActor(ctx context.Context, actor workflow.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext はコンテキストから操作者を取り出します。
func ActorFromContext(ctx context.Context) (workflow.Actor, error) {
	if ctx == nil {
		return workflow.Actor{}, ErrNoActor
	}
	actor, ok := ctx.Value(actorContextKey{}).(workflow.Actor)
	if !ok {
		return workflow.Actor{}, ErrNoActor
	}
	return actor, nil
}
