package navigate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// LoginPath is the entry point shown to logged-out users
const LoginPath = "/login"

// Navigator moves the user to an in-app path
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// Func adapts a function to a Navigator
type Func func(ctx context.Context, path string) error

func (f Func) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Printer navigates by telling the user which command reaches the path
type Printer struct {
	out   io.Writer
	hints map[string]string
}

// NewPrinter returns a Printer with the CLI's default route hints
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out: out,
		hints: map[string]string{
			LoginPath: "Run 'storefront login' to sign in again.",
		},
	}
}

// Handle registers the hint printed for path
func (p *Printer) Handle(path, hint string) {
	p.hints[path] = hint
}

func (p *Printer) Navigate(_ context.Context, path string) error {
	hint, ok := p.hints[path]
	if !ok {
		return fmt.Errorf("no route for %q", path)
	}
	_, err := fmt.Fprintln(p.out, hint)
	return err
}

// Browser navigates by opening the web app in the default browser
type Browser struct {
	baseURL string
	open    func(url string) error
}

// NewBrowser returns a Browser rooted at the web app base URL
func NewBrowser(baseURL string) *Browser {
	return NewBrowserWith(baseURL, OpenURL)
}

// NewBrowserWith returns a Browser that opens pages with open
func NewBrowserWith(baseURL string, open func(url string) error) *Browser {
	return &Browser{baseURL: baseURL, open: open}
}

func (b *Browser) Navigate(_ context.Context, path string) error {
	if b.baseURL == "" {
		return errors.New("no web URL configured")
	}
	url := strings.TrimRight(b.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if err := b.open(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Chain tries each navigator in order and stops at the first that succeeds
type Chain []Navigator

func (c Chain) Navigate(ctx context.Context, path string) error {
	var errs []error
	for _, n := range c {
		err := n.Navigate(ctx, path)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return fmt.Errorf("no navigator for %q", path)
	}
	return errors.Join(errs...)
}

// OpenURL opens the URL in the default browser
func OpenURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
