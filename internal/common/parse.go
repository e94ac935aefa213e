package common

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// ParseBlockHash decodes a hex encoded block hash, with or without the 0x
// prefix. The decoded value must be exactly 32 bytes; shorter or longer
// input is rejected rather than padded or truncated.
func ParseBlockHash(val string) (gethcommon.Hash, error) {
	stripped := strings.TrimPrefix(strings.TrimSpace(val), "0x")

	decoded, err := hex.DecodeString(stripped)
	if err != nil {
		return gethcommon.Hash{}, fmt.Errorf("cannot parse block hash from %q: %w", val, err)
	}
	if len(decoded) != gethcommon.HashLength {
		return gethcommon.Hash{}, fmt.Errorf("invalid block hash %q: expected %d bytes, got %d",
			val, gethcommon.HashLength, len(decoded))
	}

	return gethcommon.BytesToHash(decoded), nil
}

// ParseBlockNumber converts a decimal block number string into a uint64.
// Negative numbers are invalid input, not "no match".
func ParseBlockNumber(val string) (uint64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q: %w", val, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("negative block number: %d", num)
	}

	return uint64(num), nil
}

// ParseUint64orHex converts the given uint64 string into the number.
// It can parse the string with 0x prefix as well.
func ParseUint64orHex(val *string) (uint64, error) {
	if val == nil {
		return 0, nil
	}

	str := *val
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	return strconv.ParseUint(str, base, 64)
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
