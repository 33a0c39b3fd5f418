package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/config"
)

var testAuthConfig = config.AuthConfig{
	Secret:   "0123456789abcdef0123456789abcdef",
	Issuer:   "visa-test",
	TokenTTL: time.Hour,
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig)
	verifier := NewVerifier(testAuthConfig)

	want := workflow.Actor{ID: "user-7", Role: workflow.RoleEmployee, EmployeeID: "2f1c7e1e-8b44-4bde-9f57-1c1a7a0f3d10"}
	token, err := issuer.Issue(want)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestIssue_RejectsIncompleteActor(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig)

	if _, err := issuer.Issue(workflow.Actor{Role: workflow.RoleHR}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty id, got %v", err)
	}
	if _, err := issuer.Issue(workflow.Actor{ID: "x", Role: "admin"}); !errors.Is(err, workflow.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := issuer.Issue(workflow.Actor{ID: "x", Role: workflow.RoleEmployee}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for employee without record, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue(workflow.Actor{ID: "hr-1", Role: workflow.RoleHR})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := NewVerifier(testAuthConfig).Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	verifier := NewVerifier(testAuthConfig)

	other := testAuthConfig
	other.Secret = "another-secret-another-secret!!"
	forged, err := NewIssuer(other).Issue(workflow.Actor{ID: "hr-1", Role: workflow.RoleHR})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	otherIssuer := testAuthConfig
	otherIssuer.Issuer = "someone-else"
	wrongIss, err := NewIssuer(otherIssuer).Issue(workflow.Actor{ID: "hr-1", Role: workflow.RoleHR})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Verify(wrongIss); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             "hr",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "hr-1", Issuer: "visa-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}
	if _, err := verifier.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}

	if _, err := verifier.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	if tok, err := BearerToken("Bearer abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("unexpected result %q %v", tok, err)
	}
	if tok, err := BearerToken("bearer  abc "); err != nil || tok != "abc" {
		t.Fatalf("unexpected result %q %v", tok, err)
	}
	if _, err := BearerToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := BearerToken("Basic abc"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestActorContext(t *testing.T) {
	t.Parallel()

	if _, err := ActorFromContext(context.Background()); !errors.Is(err, ErrNoActor) {
		t.Fatalf("expected ErrNoActor, got %v", err)
	}

	actor := workflow.Actor{ID: "hr-1", Role: workflow.RoleHR}
	got, err := ActorFromContext(WithActor(context.Background(), actor))
	if err != nil || got != actor {
		t.Fatalf("unexpected actor %+v %v", got, err)
	}
}
