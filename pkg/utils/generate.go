package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ==================== ORDER ID ====================

// GenerateOrderID formats BOOK-YYYYMMDD-HHMMSS-NNNN from now.
func GenerateOrderID(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("BOOK-%s-%s-%04d", now.Format("20060102"), now.Format("150405"), n.Int64())
}

// ==================== PAYMENT ====================

// GeneratePaymentRef returns a reference for a simulated payment.
func GeneratePaymentRef() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "PAY-" + uuid.NewString()
	}
	return "PAY-" + hex.EncodeToString(b)
}
