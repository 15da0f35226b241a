package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// FileSuite provides a context and a scratch directory to file based tests
type FileSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	tempDir string
}

// SetupTest runs before each test in the suite
func (s *FileSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), time.Minute)
	s.tempDir = s.T().TempDir()
}

// TearDownTest runs after each test in the suite
func (s *FileSuite) TearDownTest() {
	s.cancel()
}

// Context returns the test context
func (s *FileSuite) Context() context.Context {
	return s.ctx
}

// Path returns name inside the scratch directory
func (s *FileSuite) Path(name string) string {
	return filepath.Join(s.tempDir, name)
}

// CreateTempFile creates a file in the scratch directory with content
func (s *FileSuite) CreateTempFile(name string, content []byte) string {
	path := s.Path(name)
	require.NoError(s.T(), os.WriteFile(path, content, 0o600))
	return path
}
