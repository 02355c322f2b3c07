package testutil

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// idNamespace seeds SequentialIDs so generated IDs look like real UUIDs but
// never collide with random ones.
var idNamespace = uuid.MustParse("6f1d3c2a-0b7e-4e59-9a4c-2f8d5e7b1c90")

// SequentialIDs returns a generator of name-based UUIDs derived from a
// counter. Two generators yield the same sequence, which keeps federation
// IDs stable in golden output.
func SequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return uuid.NewSHA1(idNamespace, []byte(strconv.Itoa(n))).String()
	}
}
