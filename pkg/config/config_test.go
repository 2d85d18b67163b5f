package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secdial/secdial/pkg/certgen"
	"github.com/secdial/secdial/pkg/protocol"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := writeFile(t, "secdial.yaml", `
defaultProtocol: TLSv1.2
enabledProtocols:
  - TLSv1.1
  - TLSv1.2
logLevel: debug
`)

	s, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TLSv1.2", s.DefaultProtocol)
	assert.Equal(t, []string{"TLSv1.1", "TLSv1.2"}, s.EnabledProtocols)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := writeFile(t, "secdial.json", `{"defaultProtocol":"TLSv1.3"}`)

	s, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TLSv1.3", s.DefaultProtocol)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromFile_Empty(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadFromFile_Directory(t *testing.T) {
	_, err := LoadFromFile(t.TempDir())
	assert.ErrorContains(t, err, "directory")
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("{nope"))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte(":\n:\n\t-"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestSettings_Apply(t *testing.T) {
	reg := protocol.NewRegistry(func() ([]string, error) {
		return []string{protocol.TLSv1, protocol.TLSv1_1, protocol.TLSv1_2}, nil
	})

	s := &Settings{
		DefaultProtocol:  protocol.TLSv1_3,
		EnabledProtocols: []string{protocol.TLSv1_2, protocol.TLSv1_3},
	}
	require.NoError(t, s.Apply(reg))

	assert.Equal(t, protocol.TLSv1_3, reg.DefaultProtocol())
	assert.Equal(t, []string{protocol.TLSv1_2, protocol.TLSv1_3}, reg.EnabledProtocols().Values())
}

func TestSettings_ApplyEmptyLeavesStateAlone(t *testing.T) {
	reg := protocol.NewRegistry(func() ([]string, error) {
		return []string{protocol.TLSv1, protocol.TLSv1_1, protocol.TLSv1_2}, nil
	})
	before := reg.EnabledProtocols().Values()

	require.NoError(t, (&Settings{}).Apply(reg))

	assert.Equal(t, protocol.TLSv1_2, reg.DefaultProtocol())
	assert.Equal(t, before, reg.EnabledProtocols().Values())
}

func TestSettings_KeyProvider(t *testing.T) {
	assert.Nil(t, (&Settings{}).KeyProvider())

	s := &Settings{CertFile: "a.crt", KeyFile: "a.key"}
	assert.NotNil(t, s.KeyProvider())
}

func TestSettings_TrustProvider(t *testing.T) {
	tp, err := (&Settings{}).TrustProvider()
	require.NoError(t, err)
	assert.Nil(t, tp)

	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	caPath := writeFile(t, "ca.pem", string(pair.CertPEM))

	tp, err = (&Settings{CAFile: caPath}).TrustProvider()
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, tp.VerifyPeer([][]byte{pair.Certificate.Raw}))
}

func TestSettings_TrustProviderBadFile(t *testing.T) {
	_, err := (&Settings{CAFile: "nope.pem"}).TrustProvider()
	assert.Error(t, err)

	path := writeFile(t, "junk.pem", "not a cert")
	_, err = (&Settings{CAFile: path}).TrustProvider()
	assert.ErrorContains(t, err, "no certificates found")
}

func TestSettings_FactoryOptions(t *testing.T) {
	pair, err := certgen.SelfSigned(nil)
	require.NoError(t, err)
	caPath := writeFile(t, "ca.pem", string(pair.CertPEM))

	opts, err := (&Settings{CAFile: caPath, CertFile: "a.crt", KeyFile: "a.key"}).FactoryOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}
