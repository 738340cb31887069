package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gpsauth "github.com/vaultsandbox/gpsauth-go"
)

const envPrefix = "GPSAUTH_"

// Config holds the process streams the commands read from and write to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// authClient is the subset of *gpsauth.Client the commands use.
type authClient interface {
	MasterLogin(ctx context.Context, email, password string) (*gpsauth.MasterToken, error)
	ExchangeToken(ctx context.Context, email, masterToken string, req gpsauth.ServiceRequest) (*gpsauth.OAuthToken, error)
}

// options collects flag values shared by the commands.
type options struct {
	envFile  string
	logLevel string
	timeout  time.Duration

	keyName string
	keyBlob string

	baseURL       string
	androidID     string
	deviceCountry string
	language      string
	sdkVersion    int
	retries       int

	email         string
	password      string
	passwordStdin bool

	masterToken string
	service     string
	app         string
	clientSig   string
}

// MasterLoginOutput is printed by the login command.
type MasterLoginOutput struct {
	Email     string   `json:"email"`
	Token     string   `json:"token"`
	Services  []string `json:"services,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
}

// OAuthTokenOutput is printed by the token command.
type OAuthTokenOutput struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

func run(args []string, cfg *Config) error {
	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(cfg *Config) *cobra.Command {
	opts := &options{}
	log := logrus.New()
	log.SetOutput(cfg.Stderr)

	root := &cobra.Command{
		Use:           "gpsauth",
		Short:         "Google Play Services login helper",
		Long:          "gpsauth encrypts Android login credentials and exchanges them for master and OAuth tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(opts.envFile); err != nil {
				return err
			}
			setFlagsFromEnv(envPrefix, cmd.Flags())

			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", ".env", "file of KEY=VALUE pairs loaded into the environment")
	pf.StringVar(&opts.logLevel, "log-level", "warning", "log level (trace, debug, info, warning, error)")
	pf.DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall deadline for network commands")
	pf.StringVar(&opts.keyName, "key-name", gpsauth.GoogleDefaultKey.Name, "name of the login public key")
	pf.StringVar(&opts.keyBlob, "key-blob", gpsauth.GoogleDefaultKey.Blob, "base64 login public key blob")

	root.AddCommand(
		newEncryptCmd(cfg, opts),
		newSignatureCmd(cfg, opts),
		newLoginCmd(cfg, opts, log),
		newTokenCmd(cfg, opts, log),
	)
	return root
}

func newEncryptCmd(cfg *Config, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Print the EncryptedPasswd value for an email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := newEncrypter(opts)
			if err != nil {
				return err
			}
			password, err := readPassword(opts, cfg)
			if err != nil {
				return err
			}
			return runEncrypt(enc, opts.email, password, cfg)
		},
	}
	addCredentialFlags(cmd.Flags(), opts)
	return cmd
}

func newSignatureCmd(cfg *Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "signature",
		Short: "Print the signature and size of the login public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := newEncrypter(opts)
			if err != nil {
				return err
			}
			return runSignature(enc, cfg)
		},
	}
}

func newLoginCmd(cfg *Config, opts *options, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Perform a master login and print the master token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(opts, log)
			if err != nil {
				return err
			}
			password, err := readPassword(opts, cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runLogin(ctx, client, opts.email, password, cfg)
		},
	}
	addCredentialFlags(cmd.Flags(), opts)
	addClientFlags(cmd.Flags(), opts)
	return cmd
}

func newTokenCmd(cfg *Config, opts *options, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange a master token for a service token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.service == "" {
				return errors.New("--service is required")
			}
			client, err := newClient(opts, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runToken(ctx, client, opts.email, opts.masterToken, gpsauth.ServiceRequest{
				Service:   opts.service,
				App:       opts.app,
				ClientSig: opts.clientSig,
			}, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.email, "email", "", "account email")
	flags.StringVar(&opts.masterToken, "master-token", "", "master token from login")
	flags.StringVar(&opts.service, "service", "", "OAuth scope, e.g. oauth2:https://www.googleapis.com/auth/drive")
	flags.StringVar(&opts.app, "app", "com.google.android.gms", "package name of the requesting app")
	flags.StringVar(&opts.clientSig, "client-sig", "38918a453d07199354f8b19af05ec6562ced5788", "SHA-1 of the app signing certificate")
	addClientFlags(flags, opts)
	return cmd
}

func addCredentialFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.email, "email", "", "account email")
	flags.StringVar(&opts.password, "password", "", "account password")
	flags.BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
}

func addClientFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.baseURL, "base-url", "", "auth host (default https://android.clients.google.com)")
	flags.StringVar(&opts.androidID, "android-id", "", "16 hex digit device ID (default random)")
	flags.StringVar(&opts.deviceCountry, "device-country", "us", "device and operator country")
	flags.StringVar(&opts.language, "language", "en", "device language")
	flags.IntVar(&opts.sdkVersion, "sdk-version", 17, "Android SDK level")
	flags.IntVar(&opts.retries, "retries", 0, "retries for transient failures (0 default, negative disables)")
}

func newEncrypter(opts *options) (*gpsauth.Encrypter, error) {
	return gpsauth.NewEncrypter(gpsauth.WithKeyVersion(gpsauth.KeyVersion{
		Name: opts.keyName,
		Blob: opts.keyBlob,
	}))
}

func newClient(opts *options, log logrus.FieldLogger) (*gpsauth.Client, error) {
	enc, err := newEncrypter(opts)
	if err != nil {
		return nil, err
	}

	clientOpts := []gpsauth.Option{
		gpsauth.WithEncrypter(enc),
		gpsauth.WithLogger(log),
		gpsauth.WithDeviceCountry(opts.deviceCountry),
		gpsauth.WithLanguage(opts.language),
		gpsauth.WithSDKVersion(opts.sdkVersion),
		gpsauth.WithRetries(opts.retries),
	}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, gpsauth.WithBaseURL(opts.baseURL))
	}
	if opts.androidID != "" {
		clientOpts = append(clientOpts, gpsauth.WithAndroidID(opts.androidID))
	}
	return gpsauth.New(clientOpts...)
}

func readPassword(opts *options, cfg *Config) (string, error) {
	if !opts.passwordStdin {
		return opts.password, nil
	}

	reader := bufio.NewReader(cfg.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runEncrypt(enc *gpsauth.Encrypter, email, password string, cfg *Config) error {
	encrypted, err := enc.EncryptPassword(email, password)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	_, err = fmt.Fprintln(cfg.Stdout, encrypted)
	return err
}

func runSignature(enc *gpsauth.Encrypter, cfg *Config) error {
	_, err := fmt.Fprintf(cfg.Stdout, "key: %s\nsignature: %s\nsize: %d bits\nmax credential: %d bytes\n",
		enc.KeyVersion().Name, enc.Signature(), enc.KeySize()*8, enc.MaxCredentialLength())
	return err
}

func runLogin(ctx context.Context, client authClient, email, password string, cfg *Config) error {
	token, err := client.MasterLogin(ctx, email, password)
	if err != nil {
		var apiErr *gpsauth.APIError
		if errors.As(err, &apiErr) && apiErr.URL != "" {
			return fmt.Errorf("master login: %w (continue at %s)", err, apiErr.URL)
		}
		return fmt.Errorf("master login: %w", err)
	}

	output := MasterLoginOutput{
		Email:     token.Email,
		Token:     token.Token,
		Services:  token.Services,
		FirstName: token.FirstName,
		LastName:  token.LastName,
	}
	if err := json.NewEncoder(cfg.Stdout).Encode(output); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func runToken(ctx context.Context, client authClient, email, masterToken string, req gpsauth.ServiceRequest, cfg *Config) error {
	token, err := client.ExchangeToken(ctx, email, masterToken, req)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	output := OAuthTokenOutput{Token: token.Token}
	if !token.Expiry.IsZero() {
		output.ExpiresAt = token.Expiry.UTC().Format(time.RFC3339)
	}
	if err := json.NewEncoder(cfg.Stdout).Encode(output); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setFlagsFromEnv fills flags not given on the command line from
// PREFIX_FLAG_NAME environment variables.
func setFlagsFromEnv(prefix string, flags *pflag.FlagSet) {
	set := map[string]bool{}
	flags.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	flags.VisitAll(func(f *pflag.Flag) {
		// ignore flags set from the commandline
		if set[f.Name] {
			return
		}
		cleanPrefix := strings.TrimSuffix(prefix, "_")
		name := fmt.Sprintf("%s_%s", cleanPrefix, strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"))
		if e, ok := os.LookupEnv(name); ok {
			_ = f.Value.Set(e)
		}
	})
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
