package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
)

// roleRoutes maps each role to its landing route after sign-in.
var roleRoutes = map[domain.Role]string{
	domain.RoleAdmin:     "/dashboard?tab=admin",
	domain.RoleOrganizer: "/dashboard?tab=events",
	domain.RoleSecurity:  "/dashboard?tab=scanner",
	domain.RoleAttendee:  "/dashboard?tab=overview",
}

// defaultPublicPrefixes are routes an unauthenticated user may stay on.
var defaultPublicPrefixes = []string{
	"/", "/events", "/venues", "/partners", "/about", "/contact",
}

// defaultAuthPrefixes are routes belonging to the auth flow itself; the
// guard never redirects away from them in either direction.
var defaultAuthPrefixes = []string{
	"/login", "/signup", "/forgot-password", "/reset-password",
}

const defaultLogoutPath = "/"

// RedirectPolicy decides where the user should land once the session store
// settles. Decide is a pure function; Watch applies it reactively to a
// session subscription with a small settle delay so navigation never races
// the store's own notifications.
type RedirectPolicy struct {
	routes         map[domain.Role]string
	publicPrefixes []string
	authPrefixes   []string
	logoutPath     string
	delay          time.Duration
	log            zerolog.Logger

	mu         sync.Mutex
	preAuthURL string
}

// NewRedirectPolicy returns the default policy.
func NewRedirectPolicy(timings config.Timings, log zerolog.Logger) *RedirectPolicy {
	return &RedirectPolicy{
		routes:         roleRoutes,
		publicPrefixes: defaultPublicPrefixes,
		authPrefixes:   defaultAuthPrefixes,
		logoutPath:     defaultLogoutPath,
		delay:          timings.RedirectDelay,
		log:            log,
	}
}

// Decide computes the navigation target for the given snapshot and current
// location. ok is false when no navigation should happen: the store has not
// settled, the user is already where they belong, or the location is public.
func (p *RedirectPolicy) Decide(sess domain.Session, currentPath string) (target string, ok bool) {
	if !sess.Ready() {
		return "", false
	}

	if sess.Authenticated && sess.User != nil {
		target, known := p.routes[sess.User.Role]
		if !known {
			return "", false
		}
		if currentPath == target {
			return "", false
		}
		// Only pull the user to their dashboard from auth pages, the root,
		// or a remembered pre-auth location; leave deep links alone.
		if p.isAuthPath(currentPath) || currentPath == p.logoutPath || currentPath == "" {
			if remembered := p.ConsumePreAuthURL(); remembered != "" && remembered != currentPath {
				return remembered, true
			}
			return target, true
		}
		return "", false
	}

	// Unauthenticated: leave public and auth routes alone, send everything
	// else back to the logout path while remembering where the user was.
	if p.isPublic(currentPath) || p.isAuthPath(currentPath) {
		return "", false
	}
	if currentPath == p.logoutPath {
		return "", false
	}
	p.RememberPreAuthURL(currentPath)
	return p.logoutPath, true
}

// Watch applies the policy to every snapshot until ctx is done. currentPath
// reports the user's present location; navigate performs the move (with
// history replacement, in UI terms).
func (p *RedirectPolicy) Watch(ctx context.Context, sessions <-chan domain.Session, currentPath func() string, navigate func(target string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case sess, open := <-sessions:
			if !open {
				return
			}
			timer := time.NewTimer(p.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if target, ok := p.Decide(sess, currentPath()); ok {
				p.log.Debug().Str("target", target).Msg("redirect applied")
				navigate(target)
			}
		}
	}
}

// RememberPreAuthURL records the location to restore after the next login.
func (p *RedirectPolicy) RememberPreAuthURL(path string) {
	if path == "" || p.isAuthPath(path) {
		return
	}
	p.mu.Lock()
	p.preAuthURL = path
	p.mu.Unlock()
}

// ConsumePreAuthURL returns and clears the remembered location.
func (p *RedirectPolicy) ConsumePreAuthURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := p.preAuthURL
	p.preAuthURL = ""
	return u
}

func (p *RedirectPolicy) isPublic(path string) bool {
	for _, prefix := range p.publicPrefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (p *RedirectPolicy) isAuthPath(path string) bool {
	for _, prefix := range p.authPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

