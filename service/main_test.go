package service

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Config validation requires DATABASE_URL outside the test environment
	os.Setenv("ENVIRONMENT", "test")
	os.Exit(m.Run())
}
