// Package logout ends an authenticated session: it asks the server to end
// the session, then always clears the local session and sends the user to
// the login entry point, whatever the server answered.
package logout

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront-dev/storefront/internal/cli/navigate"
)

// DefaultTimeout bounds the remote logout call
const DefaultTimeout = 10 * time.Second

// Remote ends the session on the server
type Remote interface {
	Logout(ctx context.Context) error
}

// Local resets the local session to logged out
type Local interface {
	Clear() error
}

// Flow terminates a session against one server
type Flow struct {
	remote  Remote
	local   Local
	nav     navigate.Navigator
	logger  zerolog.Logger
	timeout time.Duration
}

// New creates a termination flow
func New(remote Remote, local Local, nav navigate.Navigator, logger zerolog.Logger) *Flow {
	return &Flow{
		remote:  remote,
		local:   local,
		nav:     nav,
		logger:  logger,
		timeout: DefaultTimeout,
	}
}

// SetTimeout changes the bound on the remote call. Zero disables it.
func (f *Flow) SetTimeout(d time.Duration) {
	f.timeout = d
}

// Run logs the user out. Remote failures are logged and never returned;
// the local session is cleared and the login page is shown in every case,
// in that order, after the remote call has resolved.
func (f *Flow) Run(ctx context.Context) {
	defer f.finish(context.WithoutCancel(ctx))

	if err := f.callRemote(ctx); err != nil {
		f.logger.Warn().Err(err).Msg("Remote logout failed, continuing with local logout")
		return
	}
	f.logger.Debug().Msg("Remote session ended")
}

func (f *Flow) callRemote(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remote logout panicked: %v", r)
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	return f.remote.Logout(ctx)
}

func (f *Flow) finish(ctx context.Context) {
	if err := recovered(f.local.Clear); err != nil {
		f.logger.Error().Err(err).Msg("Failed to clear local session")
	}

	err := recovered(func() error { return f.nav.Navigate(ctx, navigate.LoginPath) })
	if err != nil {
		f.logger.Error().Err(err).Str("path", navigate.LoginPath).Msg("Failed to navigate after logout")
	}
}

// recovered runs fn and turns a panic into an error
func recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
