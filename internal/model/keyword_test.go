package model

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service layer's duplicate check is a case-sensitive equality; the
// unique index must enforce the same semantics or "ai" alongside "AI" passes
// the check and then trips the constraint. A binary collation keeps the two
// in agreement on MySQL, whose default varchar collation is case-insensitive.
func TestKeywordColumnCollationMatchesLookupSemantics(t *testing.T) {
	field, ok := reflect.TypeOf(Keyword{}).FieldByName("Keyword")
	require.True(t, ok)

	tag := field.Tag.Get("gorm")
	assert.True(t, strings.Contains(tag, "COLLATE utf8mb4_bin"), "gorm tag: %s", tag)
	assert.True(t, strings.Contains(tag, "uniqueIndex:uq_user_keyword"), "gorm tag: %s", tag)

	userField, ok := reflect.TypeOf(Keyword{}).FieldByName("UserID")
	require.True(t, ok)
	assert.True(t, strings.Contains(userField.Tag.Get("gorm"), "uniqueIndex:uq_user_keyword"))
}
