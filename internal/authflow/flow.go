// Package authflow drives the sign-in dialog as a UI-agnostic state
// machine: a finite set of views, transition rules driven by backend
// answers and return URLs, and readable error text for whatever surface
// renders it.
package authflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/api/metrics"
	"github.com/JBcollo2/pulse-sub002/internal/client"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
)

// View identifies one face of the auth dialog.
type View string

const (
	ViewSignIn            View = "signin"
	ViewSignUp            View = "signup"
	ViewAdminRegistration View = "admin-registration"
	ViewForgotPassword    View = "forgot-password"
	ViewResetPassword     View = "reset-password"
)

const genericErrMsg = "Something went wrong. Please try again."

// SignInInput is the sign-in form payload.
type SignInInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Flow is the dialog state machine. All mutating entry points are safe for
// concurrent use; reads return the state as of the call.
type Flow struct {
	api     ports.AuthAPI
	session ports.SessionService
	forms   *Forms
	timings config.Timings
	log     zerolog.Logger
	now     func() time.Time

	mu            sync.Mutex
	view          View
	open          bool
	errMsg        string
	notice        string
	prefillEmail  string
	resetToken    string
	resetReady    bool
	fallbackTimer *time.Timer
	chainTimer    *time.Timer
}

// New returns a Flow opening on the sign-in view.
func New(api ports.AuthAPI, session ports.SessionService, timings config.Timings, log zerolog.Logger) *Flow {
	return &Flow{
		api:     api,
		session: session,
		forms:   NewForms(),
		timings: timings,
		log:     log,
		now:     time.Now,
		view:    ViewSignIn,
		open:    true,
	}
}

// Start runs the mount-time admin-existence check. When the backend says no
// admin exists and the dialog sits on sign-in, it force-transitions to
// admin registration. A failed check assumes an admin exists: re-exposing
// bootstrap registration on an ambiguous failure is the more dangerous
// outcome, so the flow errs the other way.
func (f *Flow) Start(ctx context.Context) {
	exists, err := f.api.CheckAdmin(ctx)
	if err != nil {
		f.log.Warn().Err(err).Msg("admin check failed, assuming admin exists")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !exists && f.view == ViewSignIn {
		f.view = ViewAdminRegistration
		f.errMsg = ""
	}
}

// Stop cancels any pending timers.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fallbackTimer != nil {
		f.fallbackTimer.Stop()
	}
	if f.chainTimer != nil {
		f.chainTimer.Stop()
	}
}

// View returns the current dialog face.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// Err returns the current user-facing error text, empty when none.
func (f *Flow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Notice returns the current toast text, empty when none.
func (f *Flow) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// IsOpen reports whether the dialog is still showing.
func (f *Flow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// PrefillEmail returns the email to pre-populate on the sign-in form.
func (f *Flow) PrefillEmail() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefillEmail
}

// ResetFormRevealed reports whether the reset token survived validation and
// the new-password form may be shown.
func (f *Flow) ResetFormRevealed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view == ViewResetPassword && f.resetReady
}

// SwitchView is manual navigation between dialog faces; it clears any
// stale error.
func (f *Flow) SwitchView(v View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = v
	f.errMsg = ""
}

// HandleURL inspects a return URL for flow-changing markers: a reset token
// forces the reset-password view and triggers server validation, and the
// OAuth success marker completes the Google sign-in.
func (f *Flow) HandleURL(ctx context.Context, raw string) {
	if IsGoogleReturn(raw) {
		f.CompleteGoogle(ctx)
		return
	}
	if token := ResetTokenFromURL(raw); token != "" {
		f.beginResetValidation(ctx, token)
	}
}

// SignIn submits the sign-in form. On success the dialog closes and the
// session store takes over.
func (f *Flow) SignIn(ctx context.Context, email, password string) error {
	if err := f.forms.Check(SignInInput{Email: email, Password: password}); err != nil {
		f.setError(err.Error())
		return err
	}

	user, err := f.api.Login(ctx, email, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signin", "error").Inc()
		f.setError(messageFor(err))
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signin", "ok").Inc()
	f.finishLogin(user)
	return nil
}

// SignUp submits the registration form. Success schedules an automatic
// sign-in with the same credentials after the chain delay; if that chained
// sign-in fails, the dialog falls back to sign-in with the email prefilled.
func (f *Flow) SignUp(ctx context.Context, in ports.RegisterInput) error {
	if err := f.validateRegistration(in); err != nil {
		return err
	}

	if err := f.api.Register(ctx, in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		f.setError(messageFor(err))
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "ok").Inc()
	f.setNotice("Account created")
	f.scheduleChainedSignIn(in.Email, in.Password)
	return nil
}

// RegisterAdmin submits the one-time admin bootstrap form. The same
// chained sign-in applies. When the backend reports an admin already
// exists, the dialog returns to sign-in.
func (f *Flow) RegisterAdmin(ctx context.Context, in ports.RegisterInput) error {
	if err := f.validateRegistration(in); err != nil {
		return err
	}

	if err := f.api.RegisterFirstAdmin(ctx, in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("admin_registration", "error").Inc()
		if errors.Is(err, domain.ErrAdminExists) {
			f.mu.Lock()
			f.view = ViewSignIn
			f.errMsg = domain.ErrAdminExists.Error()
			f.mu.Unlock()
			return err
		}
		f.setError(messageFor(err))
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("admin_registration", "ok").Inc()
	f.setNotice("Admin account created")
	f.scheduleChainedSignIn(in.Email, in.Password)
	return nil
}

// SubmitForgotPassword asks the backend to email a reset link.
func (f *Flow) SubmitForgotPassword(ctx context.Context, email string) error {
	if err := f.forms.Check(struct {
		Email string `validate:"required,email"`
	}{Email: email}); err != nil {
		f.setError(err.Error())
		return err
	}

	if err := f.api.ForgotPassword(ctx, email); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "error").Inc()
		f.setError(messageFor(err))
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "ok").Inc()
	f.setNotice("Reset instructions sent")
	return nil
}

// SubmitResetPassword sets the new password using the validated token.
func (f *Flow) SubmitResetPassword(ctx context.Context, password, confirm string) error {
	f.mu.Lock()
	token := f.resetToken
	ready := f.resetReady
	f.mu.Unlock()

	if token == "" || !ready {
		err := domain.ErrInvalidToken
		f.setError(err.Error())
		return err
	}
	if err := ValidatePasswordPair(password, confirm); err != nil {
		f.setError(err.Error())
		return err
	}

	if err := f.api.ResetPassword(ctx, token, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("reset_password", "error").Inc()
		if errors.Is(err, domain.ErrInvalidToken) {
			f.failResetToken(err.Error())
			return err
		}
		f.setError(messageFor(err))
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("reset_password", "ok").Inc()
	f.mu.Lock()
	f.view = ViewSignIn
	f.resetToken = ""
	f.resetReady = false
	f.notice = "Password updated, please sign in"
	f.errMsg = ""
	f.mu.Unlock()
	return nil
}

// CompleteGoogle finishes the redirect-based Google sign-in: the backend
// already set the session cookie, so a profile refresh is all that remains.
func (f *Flow) CompleteGoogle(ctx context.Context) {
	f.session.Refresh(ctx)

	if snap := f.session.Snapshot(); snap.Authenticated {
		metrics.AuthAttemptsTotal.WithLabelValues("google", "ok").Inc()
		f.mu.Lock()
		f.open = false
		f.notice = "Login Successful"
		f.errMsg = ""
		f.mu.Unlock()
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("google", "error").Inc()
	f.setError("Google sign-in did not complete. Please try again.")
}

// GoogleLoginURL exposes the backend's OAuth entry point for the UI.
func (f *Flow) GoogleLoginURL() string {
	return f.api.GoogleLoginURL()
}

// beginResetValidation moves to the reset view and validates the token,
// locally first (JWT expiry) and then server-side. A failed validation
// shows the error and falls back to forgot-password after the configured
// delay.
func (f *Flow) beginResetValidation(ctx context.Context, token string) {
	f.mu.Lock()
	f.view = ViewResetPassword
	f.resetToken = token
	f.resetReady = false
	f.errMsg = ""
	f.mu.Unlock()

	if err := precheckResetToken(token, f.now()); err != nil {
		f.failResetToken(err.Error())
		return
	}
	if err := f.api.ValidateResetToken(ctx, token); err != nil {
		f.failResetToken(messageFor(err))
		return
	}

	f.mu.Lock()
	f.resetReady = true
	f.mu.Unlock()
}

// failResetToken shows the error on the reset view and schedules the
// automatic return to forgot-password.
func (f *Flow) failResetToken(msg string) {
	f.mu.Lock()
	f.errMsg = msg
	f.resetReady = false
	if f.fallbackTimer != nil {
		f.fallbackTimer.Stop()
	}
	f.fallbackTimer = time.AfterFunc(f.timings.ResetFallbackDelay, func() {
		f.mu.Lock()
		if f.view == ViewResetPassword {
			f.view = ViewForgotPassword
			f.resetToken = ""
		}
		f.mu.Unlock()
	})
	f.mu.Unlock()
}

func (f *Flow) validateRegistration(in ports.RegisterInput) error {
	if err := f.forms.Check(in); err != nil {
		f.setError(err.Error())
		return err
	}
	if err := ValidateNewPassword(in.Password); err != nil {
		f.setError(err.Error())
		return err
	}
	return nil
}

// scheduleChainedSignIn runs the automatic post-registration sign-in after
// the chain delay.
func (f *Flow) scheduleChainedSignIn(email, password string) {
	f.mu.Lock()
	if f.chainTimer != nil {
		f.chainTimer.Stop()
	}
	f.chainTimer = time.AfterFunc(f.timings.SignupChainDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timings.RequestTimeout)
		defer cancel()

		user, err := f.api.Login(ctx, email, password)
		if err != nil {
			f.log.Warn().Err(err).Msg("chained sign-in failed, falling back to the sign-in view")
			f.mu.Lock()
			f.view = ViewSignIn
			f.prefillEmail = email
			f.errMsg = "Account created. Please sign in."
			f.mu.Unlock()
			return
		}
		f.finishLogin(user)
	})
	f.mu.Unlock()
}

// finishLogin installs the session and closes the dialog.
func (f *Flow) finishLogin(user *domain.User) {
	if err := f.session.Login(user); err != nil {
		f.setError(genericErrMsg)
		return
	}
	f.mu.Lock()
	f.open = false
	f.notice = "Login Successful"
	f.errMsg = ""
	f.prefillEmail = ""
	f.mu.Unlock()
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	f.errMsg = msg
	f.mu.Unlock()
}

func (f *Flow) setNotice(msg string) {
	f.mu.Lock()
	f.notice = msg
	f.errMsg = ""
	f.mu.Unlock()
}

// messageFor keeps the server's own wording when the backend answered, and
// falls back to generic text for transport-level failures.
func messageFor(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}
	return genericErrMsg
}
