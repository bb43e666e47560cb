package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Bill-Pill/sunglasses-io/models"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	"go.uber.org/zap"
)

const (
	BrandsFile   = "brands.json"
	ProductsFile = "products.json"
	UsersFile    = "users.json"
)

// Dataset is everything the service needs before it can serve traffic.
type Dataset struct {
	Brands   []models.Brand
	Products []models.Product
	Users    []models.User
}

// Source reads a named seed file.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads seed files from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Read(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, name))
}

// S3Source reads seed files from Bucket under Prefix.
type S3Source struct {
	Client awspkg.ObjectGetter
	Bucket string
	Prefix string
}

func (s S3Source) Read(ctx context.Context, name string) ([]byte, error) {
	return awspkg.Download(ctx, s.Client, s.Bucket, path.Join(s.Prefix, name))
}

// SecretGetter is satisfied by *aws.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

type Loader struct {
	source      Source
	secrets     SecretGetter
	usersSecret string
	logger      *zap.Logger
}

// NewLoader creates a Loader. When usersSecret is non-empty the users
// collection comes from that secret instead of the source.
func NewLoader(source Source, secrets SecretGetter, usersSecret string, logger *zap.Logger) *Loader {
	return &Loader{source: source, secrets: secrets, usersSecret: usersSecret, logger: logger}
}

// Load reads all three collections. Any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var ds Dataset

	if err := l.decodeFile(ctx, BrandsFile, &ds.Brands); err != nil {
		return nil, err
	}
	if err := l.decodeFile(ctx, ProductsFile, &ds.Products); err != nil {
		return nil, err
	}
	if err := l.loadUsers(ctx, &ds.Users); err != nil {
		return nil, err
	}

	l.logger.Info("Seed data loaded",
		zap.Int("brands", len(ds.Brands)),
		zap.Int("products", len(ds.Products)),
		zap.Int("users", len(ds.Users)),
	)
	return &ds, nil
}

func (l *Loader) loadUsers(ctx context.Context, dst *[]models.User) error {
	if l.usersSecret == "" {
		return l.decodeFile(ctx, UsersFile, dst)
	}
	if l.secrets == nil {
		return fmt.Errorf("users secret %s configured without a secrets client", l.usersSecret)
	}

	raw, err := l.secrets.GetSecret(ctx, l.usersSecret)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode users secret %s: %w", l.usersSecret, err)
	}
	return nil
}

func (l *Loader) decodeFile(ctx context.Context, name string, dst any) error {
	data, err := l.source.Read(ctx, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
