package aws_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSecrets struct {
	mock.Mock
}

func (m *mockSecrets) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, *in.SecretId)
	if out := args.Get(0); out != nil {
		return out.(*secretsmanager.GetSecretValueOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSecretsClient_CachesValue(t *testing.T) {
	m := new(mockSecrets)
	m.On("GetSecretValue", mock.Anything, "users").
		Return(&secretsmanager.GetSecretValueOutput{SecretString: sdkaws.String(`[]`)}, nil).
		Once()

	client := awspkg.NewSecretsClientWith(m)

	for i := 0; i < 3; i++ {
		v, err := client.GetSecret(context.Background(), "users")
		require.NoError(t, err)
		assert.Equal(t, `[]`, v)
	}
	m.AssertExpectations(t)
}

func TestSecretsClient_BinarySecretRejected(t *testing.T) {
	m := new(mockSecrets)
	m.On("GetSecretValue", mock.Anything, "bin").
		Return(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1}}, nil)

	_, err := awspkg.NewSecretsClientWith(m).GetSecret(context.Background(), "bin")
	assert.ErrorContains(t, err, "no string value")
}

type fakeGetter struct {
	objects map[string]string
}

func (f fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestDownload(t *testing.T) {
	getter := fakeGetter{objects: map[string]string{"seed/data/brands.json": `[{"id":"1"}]`}}

	body, err := awspkg.Download(context.Background(), getter, "seed", "data/brands.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(body))

	_, err = awspkg.Download(context.Background(), getter, "seed", "missing.json")
	assert.ErrorContains(t, err, "s3://seed/missing.json")
}

func TestMetricsClient_NilIsNoop(t *testing.T) {
	var m *awspkg.MetricsClient
	assert.False(t, m.IsEnabled())
	assert.NoError(t, m.RecordCount(context.Background(), awspkg.MetricHTTPRequests, nil))
}
