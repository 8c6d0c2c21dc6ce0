package login

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/winnersswap/swap-web/internal/authclient"
	"github.com/winnersswap/swap-web/internal/logging"
	"github.com/winnersswap/swap-web/internal/metrics"
)

// GenericError is shown for every failure that is not a 422.
const GenericError = "Something went wrong"

// Authenticator submits credentials to the authentication service.
type Authenticator interface {
	Login(ctx context.Context, creds authclient.Credentials) (*authclient.LoginResult, error)
}

// Outcome is the result of one Submit. Exactly one of Result, FieldErrors or
// Errors is populated.
type Outcome struct {
	Result      *authclient.LoginResult
	FieldErrors FieldErrors
	// Errors is the submission error list shown above the submit control.
	Errors []string
}

// OK reports whether the login succeeded.
func (o Outcome) OK() bool { return o.Result != nil }

// Flow validates a form and submits it. Identical submissions from the same
// form instance share one upstream call.
type Flow struct {
	auth     Authenticator
	inflight singleflight.Group
	strict   *bluemonday.Policy
}

// NewFlow creates a Flow backed by auth.
func NewFlow(auth Authenticator) *Flow {
	return &Flow{auth: auth, strict: bluemonday.StrictPolicy()}
}

// Submit validates f and, when it passes, makes a single login attempt.
func (fl *Flow) Submit(ctx context.Context, f Form) Outcome {
	log := logging.FromContext(ctx)

	if fe := Validate(f); !fe.Valid() {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return Outcome{FieldErrors: fe}
	}

	creds := authclient.Credentials{Email: f.Email, Password: f.Password}
	if f.Remember {
		remember := true
		creds.Remember = &remember
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own request goes away. The client's timeout still bounds it.
	ch := fl.inflight.DoChan(inflightKey(f), func() (any, error) {
		metrics.LoginInFlight.Inc()
		defer metrics.LoginInFlight.Dec()
		return fl.auth.Login(context.WithoutCancel(ctx), creds)
	})
	var (
		v   any
		err error
	)
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
		if res.Shared {
			log.Debug("login submission joined an in-flight attempt")
		}
	case <-ctx.Done():
		metrics.LoginAttemptsTotal.WithLabelValues("abandoned").Inc()
		log.Debug("login submission abandoned", zap.Error(ctx.Err()))
		return Outcome{Errors: []string{GenericError}}
	}

	if err != nil {
		var verr *authclient.ValidationError
		if errors.As(err, &verr) {
			if msgs := fl.clean(verr.Messages()); len(msgs) > 0 {
				metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
				log.Info("login rejected by authentication service", zap.Int("fields", len(verr.Fields)))
				return Outcome{Errors: msgs}
			}
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		log.Warn("login failed", zap.Error(err))
		return Outcome{Errors: []string{GenericError}}
	}

	res, _ := v.(*authclient.LoginResult)
	if res == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		log.Warn("login returned no result")
		return Outcome{Errors: []string{GenericError}}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return Outcome{Result: res}
}

// clean strips markup from service-provided messages and drops blanks.
func (fl *Flow) clean(msgs []string) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		m = strings.TrimSpace(html.UnescapeString(fl.strict.Sanitize(m)))
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// inflightKey scopes deduplication to one form instance and one exact set of
// credentials. Only a digest of the password enters the key.
func inflightKey(f Form) string {
	id := f.FormID
	if id == "" {
		id = uuid.NewString()
	}
	h := sha256.New()
	h.Write([]byte(f.Email))
	h.Write([]byte{0})
	h.Write([]byte(f.Password))
	if f.Remember {
		h.Write([]byte{0, 1})
	}
	return id + ":" + hex.EncodeToString(h.Sum(nil))
}
