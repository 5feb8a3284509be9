package lobby

import "crypto/rand"

// codeAlphabet deliberately omits glyphs that read ambiguously when
// shouted across a room (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxCodeAttempts bounds collision retries before CreateRoom gives up
// with ErrCodesExhausted.
const maxCodeAttempts = 32

func newCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}

	return string(out)
}
