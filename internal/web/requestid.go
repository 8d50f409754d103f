package web

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-Id"

var requestIDSuffixMax = big.NewInt(100_000_000)

// genRequestID returns the start time down to microseconds followed by eight
// random digits, e.g. 2026101904051200012345678901.
func genRequestID() string {
	ts := strings.ReplaceAll(time.Now().Format("20060102150405.000000"), ".", "")
	n, err := crand.Int(crand.Reader, requestIDSuffixMax)
	if err != nil {
		return ts + "00000000"
	}
	return fmt.Sprintf("%s%08d", ts, n.Int64())
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = genRequestID()
		}
		c.Header(RequestIDHeader, id)
		c.Set(RequestIDHeader, id)
		c.Next()
	}
}
