package blob

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAttachmentKey(t *testing.T) {
	t.Parallel()

	templateID := uuid.New()

	t.Run("includes template id prefix", func(t *testing.T) {
		t.Parallel()

		key := AttachmentKey(templateID, "invoice.pdf")
		require.True(t, strings.HasPrefix(key, "attachments/"+templateID.String()+"/"))
		require.True(t, strings.HasSuffix(key, "-invoice.pdf"))
	})

	t.Run("unique per call", func(t *testing.T) {
		t.Parallel()

		a := AttachmentKey(templateID, "invoice.pdf")
		b := AttachmentKey(templateID, "invoice.pdf")
		require.NotEqual(t, a, b)
	})

	t.Run("strips path traversal", func(t *testing.T) {
		t.Parallel()

		key := AttachmentKey(templateID, "../../etc/passwd")
		require.NotContains(t, key, "..")
		require.True(t, strings.HasSuffix(key, "-etc_passwd"))
	})

	t.Run("empty filename falls back", func(t *testing.T) {
		t.Parallel()

		key := AttachmentKey(templateID, "")
		require.True(t, strings.HasSuffix(key, "-file"))
	})
}
