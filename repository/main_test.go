package repository

import (
	"os"
	"testing"

	"bank-ledger/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
