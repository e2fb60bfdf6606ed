package navigate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	require.NoError(t, p.Navigate(context.Background(), LoginPath))
	assert.Equal(t, "Run 'storefront login' to sign in again.\n", out.String())

	assert.EqualError(t, p.Navigate(context.Background(), "/cart"), `no route for "/cart"`)

	p.Handle("/cart", "Run 'storefront cart' to view your cart.")
	out.Reset()
	require.NoError(t, p.Navigate(context.Background(), "/cart"))
	assert.Contains(t, out.String(), "storefront cart")
}

func TestBrowser(t *testing.T) {
	var opened []string
	b := &Browser{
		baseURL: "https://shop.example.com/",
		open: func(url string) error {
			opened = append(opened, url)
			return nil
		},
	}

	require.NoError(t, b.Navigate(context.Background(), LoginPath))
	assert.Equal(t, []string{"https://shop.example.com/login"}, opened)

	b.baseURL = ""
	assert.EqualError(t, b.Navigate(context.Background(), LoginPath), "no web URL configured")
}

func TestChain_FallsBack(t *testing.T) {
	var calls []string
	failing := Func(func(_ context.Context, path string) error {
		calls = append(calls, "browser "+path)
		return errors.New("no display")
	})
	working := Func(func(_ context.Context, path string) error {
		calls = append(calls, "printer "+path)
		return nil
	})

	require.NoError(t, Chain{failing, working}.Navigate(context.Background(), LoginPath))
	assert.Equal(t, []string{"browser /login", "printer /login"}, calls)
}

func TestChain_StopsAtFirstSuccess(t *testing.T) {
	count := 0
	ok := Func(func(context.Context, string) error {
		count++
		return nil
	})

	require.NoError(t, Chain{ok, ok}.Navigate(context.Background(), LoginPath))
	assert.Equal(t, 1, count)
}

func TestChain_AllFail(t *testing.T) {
	bad := Func(func(context.Context, string) error { return errors.New("nope") })

	err := Chain{bad, bad}.Navigate(context.Background(), LoginPath)
	assert.ErrorContains(t, err, "nope")

	assert.Error(t, Chain{}.Navigate(context.Background(), LoginPath))
}
