// Package pagination implements stable cursor pagination over an in-memory
// candidate list, bound to a hash of the resolved query parameters.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"hash/fnv"
	"strconv"

	"github.com/dinver-app/dinver-sub005/pkg/model"
)

const DefaultPageSize = 10

// maxPageSize caps what a client may request per page.
const maxPageSize = 50

// cursor is the wire format of a pagination token. The parameter hash binds
// the token to one resolved parameter set so stale cursors are detected
// when filters change mid-conversation.
type cursor struct {
	Offset int    `json:"o"`
	Limit  int    `json:"l"`
	Hash   string `json:"h"`
}

// HashParams derives the parameter hash from a canonical parameter key.
func HashParams(canonicalKey string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonicalKey))
	return strconv.FormatUint(h.Sum64(), 16)
}

// Encode builds an opaque cursor token.
func Encode(offset, limit int, paramHash string) string {
	raw, err := json.Marshal(cursor{Offset: offset, Limit: limit, Hash: paramHash})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode extracts offset and limit from a token. A missing or malformed
// token, or one whose embedded hash disagrees with the current parameter
// hash, silently resets to offset 0: a hash mismatch indicates a
// mid-conversation filter change, not client misuse.
func Decode(token, paramHash string, defaultLimit int) (offset, limit int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}

	if token == "" {
		return 0, defaultLimit
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, defaultLimit
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0, defaultLimit
	}
	if c.Hash != paramHash || c.Offset < 0 {
		return 0, defaultLimit
	}
	if c.Limit <= 0 || c.Limit > maxPageSize {
		c.Limit = defaultLimit
	}
	return c.Offset, c.Limit
}

// Page slices one page out of the full candidate list and builds the
// next/previous cursors plus the page summary. The list must already be
// sorted by the caller.
func Page(results []model.CandidateResult, offset, limit int, paramHash string) ([]model.CandidateResult, model.PageInfo, string, string) {
	total := len(results)
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset > total {
		offset = total
	}

	end := offset + limit
	if end > total {
		end = total
	}
	page := results[offset:end]

	info := model.PageInfo{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasNext: end < total,
		HasPrev: offset > 0,
	}

	var next, prev string
	if info.HasNext {
		next = Encode(end, limit, paramHash)
	}
	if info.HasPrev {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev = Encode(prevOffset, limit, paramHash)
	}
	return page, info, next, prev
}
