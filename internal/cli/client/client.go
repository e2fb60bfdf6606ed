package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"
)

// Client represents a GraphQL client for the storefront API
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	gql        *graphql.Client
	logger     zerolog.Logger
}

// New creates a new API client for a GraphQL endpoint
func New(endpoint string) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	c.rebuild()
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
	c.rebuild()
}

// SetToken sets the bearer token sent with every request. An empty token
// sends anonymous requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetLogger enables debug logging of GraphQL traffic
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
	c.rebuild()
}

// Endpoint returns the GraphQL endpoint
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) rebuild() {
	c.gql = graphql.NewClient(c.endpoint, graphql.WithHTTPClient(c.httpClient))
	logger := c.logger
	c.gql.Log = func(s string) {
		// Variables carry passwords
		if strings.HasPrefix(s, ">> variables") {
			return
		}
		logger.Debug().Str("endpoint", c.endpoint).Msg(s)
	}
}

func (c *Client) run(ctx context.Context, req *graphql.Request, resp interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	return c.gql.Run(ctx, req, resp)
}

// User represents an account on the storefront
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// LoginResult is the issued session token and its owner
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates the user and returns a session token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := graphql.NewRequest(LoginMutation)
	req.Var("email", email)
	req.Var("password", password)

	var resp struct {
		Login LoginResult `json:"login"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return &resp.Login, nil
}

// Logout invalidates the current session on the server
func (c *Client) Logout(ctx context.Context) error {
	req := graphql.NewRequest(LogoutMutation)

	if err := c.run(ctx, req, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	req := graphql.NewRequest(MeQuery)

	var resp struct {
		Me *User `json:"me"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	if resp.Me == nil {
		return nil, fmt.Errorf("failed to fetch current user: not authenticated")
	}

	return resp.Me, nil
}

// Address represents a saved shipping address
type Address struct {
	ID           string `json:"id" yaml:"id"`
	FullName     string `json:"fullName" yaml:"full_name"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	AddressLine1 string `json:"addressLine1" yaml:"address_line1"`
	AddressLine2 string `json:"addressLine2,omitempty" yaml:"address_line2,omitempty"`
	City         string `json:"city" yaml:"city"`
	State        string `json:"state" yaml:"state"`
	Country      string `json:"country" yaml:"country"`
	PostalCode   string `json:"postalCode" yaml:"postal_code"`
	IsDefault    bool   `json:"isDefault" yaml:"is_default"`
}

// AddressInput is the payload for creating an address
type AddressInput struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalCode"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}

// UserAddresses returns the addresses of the current user
func (c *Client) UserAddresses(ctx context.Context) ([]Address, error) {
	req := graphql.NewRequest(UserAddressesQuery)

	var resp struct {
		UserAddresses []Address `json:"userAddresses"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	return resp.UserAddresses, nil
}

// CreateAddress saves a new address for userID
func (c *Client) CreateAddress(ctx context.Context, userID string, input AddressInput) (*Address, error) {
	req := graphql.NewRequest(CreateAddressMutation)
	req.Var("userId", userID)
	req.Var("input", input)

	var resp struct {
		CreateAddress Address `json:"createAddress"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return &resp.CreateAddress, nil
}
