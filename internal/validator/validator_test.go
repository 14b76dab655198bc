package validator

import (
	"strings"
	"testing"
	
	"github.com/stretchr/testify/assert"
)

func TestValidateDocumentID(t *testing.T) {
	for _, id := range []string{"abc", "u_123", "멘토", strings.Repeat("a", 1500)} {
		assert.NoError(t, ValidateDocumentID(id), id)
	}
	
	for _, id := range []string{"", "a/b", ".", "..", "__name__", strings.Repeat("a", 1501)} {
		assert.Error(t, ValidateDocumentID(id), id)
	}
}

func TestValidateDocumentPath(t *testing.T) {
	assert.NoError(t, ValidateDocumentPath("matches/m1"))
	assert.NoError(t, ValidateDocumentPath("boards/b1/comments/c1"))
	
	assert.Error(t, ValidateDocumentPath(""))
	assert.Error(t, ValidateDocumentPath("matches"))
	assert.Error(t, ValidateDocumentPath("chats//messages/m1"))
	assert.Error(t, ValidateDocumentPath("matches/__id__"))
}
