package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Tiliavir/promille/internal/auth"
	"github.com/Tiliavir/promille/internal/config"
	"github.com/Tiliavir/promille/internal/httpclient"
	"github.com/Tiliavir/promille/internal/logger"
)

var (
	apiHeaders []string
	apiData    string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Talk to the configured remote API",
	Long: `Requests carry the stored bearer token. When the API answers 401 the
token is refreshed once and every affected request is replayed.`,
}

var apiLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with the OAuth2 device code flow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.API.ClientID == "" || cfg.API.DeviceAuthURL == "" || cfg.API.TokenURL == "" {
			return errors.New("api.client_id, api.device_auth_url and api.token_url must be set in the config file")
		}
		store, err := tokenStore(cfg.API)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		tok, err := auth.Login(ctx, auth.OAuth2Config(cfg.API), store, cmd.OutOrStdout())
		if err != nil {
			fail(err)
		}
		logger.Info("logged in", "expiry", tok.Expiry)
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
		return nil
	},
}

var apiLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tokenStore(cfg.API)
		if err != nil {
			return err
		}
		if err := auth.Logout(store); err != nil {
			if errors.Is(err, auth.ErrNotLoggedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fail(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var apiGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Send a GET request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAPIRequest(cmd, http.MethodGet, args[0], nil)
	},
}

var apiPostCmd = &cobra.Command{
	Use:   "post <path>",
	Short: "Send a POST request with a JSON body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body []byte
		if apiData != "" {
			if !json.Valid([]byte(apiData)) {
				return errors.New("--data is not valid JSON")
			}
			body = []byte(apiData)
		}
		return runAPIRequest(cmd, http.MethodPost, args[0], body)
	},
}

func init() {
	apiCmd.PersistentFlags().StringArrayVarP(&apiHeaders, "header", "H", nil, `Extra request header "Name: value" (repeatable)`)
	apiPostCmd.Flags().StringVarP(&apiData, "data", "d", "", "JSON request body")

	apiCmd.AddCommand(apiLoginCmd)
	apiCmd.AddCommand(apiLogoutCmd)
	apiCmd.AddCommand(apiGetCmd)
	apiCmd.AddCommand(apiPostCmd)
}

func runAPIRequest(cmd *cobra.Command, method, path string, body []byte) error {
	header, err := parseHeaders(apiHeaders)
	if err != nil {
		return err
	}
	if body != nil && header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	if cfg.API.BaseURL == "" && !strings.Contains(path, "://") {
		return errors.New("api.base_url is not configured; pass an absolute URL")
	}

	store, err := tokenStore(cfg.API)
	if err != nil {
		return err
	}
	client := newAPIClient(cfg.API, auth.NewSession(auth.OAuth2Config(cfg.API), store))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := client.Do(ctx, method, path, body, header)
	if err != nil {
		var se *httpclient.StatusError
		switch {
		case errors.Is(err, httpclient.ErrAborted):
			fmt.Fprintln(os.Stderr, "Request cancelled.")
			os.Exit(130)
		case errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized:
			fail(fmt.Errorf("%w\nTip: run `promille api login`", err))
		}
		fail(err)
	}
	return printResult(cmd.OutOrStdout(), res)
}

// newAPIClient wires the request coordinator to the auth session.
func newAPIClient(api config.APIConfig, sess *auth.Session) *httpclient.Client {
	opts := []httpclient.Option{
		httpclient.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		httpclient.WithDefaultHeaders(http.Header{
			"Accept":     {"application/json"},
			"User-Agent": {"promille"},
		}),
		httpclient.WithTokenFunc(sess.Token),
		httpclient.WithRefreshFunc(sess.Refresh),
		httpclient.WithLogger(logger.Logger),
	}
	if api.RateLimit > 0 {
		opts = append(opts, httpclient.WithRateLimit(rate.Limit(api.RateLimit), api.RateBurst))
	}
	return httpclient.New(strings.TrimRight(api.BaseURL, "/"), opts...)
}

func tokenStore(api config.APIConfig) (auth.TokenStore, error) {
	switch api.TokenStore {
	case "keyring":
		return auth.NewKeyringStore(), nil
	case "", "file":
		return auth.NewFileStore(auth.DefaultTokenPath(homeDir)), nil
	default:
		return nil, fmt.Errorf("unknown api.token_store %q: want file or keyring", api.TokenStore)
	}
}

func parseHeaders(values []string) (http.Header, error) {
	h := make(http.Header)
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: want \"Name: value\"", v)
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}

func printResult(w io.Writer, res *httpclient.Result) error {
	if res.Kind == httpclient.KindText {
		_, err := fmt.Fprintln(w, res.Text)
		return err
	}
	if len(res.JSON) == 0 {
		return nil
	}
	var v any
	if err := res.Decode(&v); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
