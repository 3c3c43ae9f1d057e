package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

func TestNewS3Uploader_NotConfigured(t *testing.T) {
	_, err := NewS3Uploader(config.S3{Bucket: "medstore"})
	assert.Error(t, err)
}

func TestS3Uploader_ObjectKeyAndLink(t *testing.T) {
	u, err := NewS3Uploader(config.S3{
		APIKey:    "key",
		Secret:    "secret",
		Endpoint:  "https://blr1.digitaloceanspaces.com",
		Region:    "blr1",
		Bucket:    "medstore",
		PublicURL: "https://cdn.example.com/",
		Folder:    "/invoices/",
	})
	require.NoError(t, err)

	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	key := u.ObjectKey("tmp/invoice-B-1.pdf", at)
	assert.Equal(t, "invoices/2024/03/invoice-B-1.pdf", key)

	link, err := u.link(key)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/invoices/2024/03/invoice-B-1.pdf", link)
}

func TestS3Uploader_PresignedLink(t *testing.T) {
	u, err := NewS3Uploader(config.S3{
		APIKey:   "key",
		Secret:   "secret",
		Endpoint: "https://blr1.digitaloceanspaces.com",
		Region:   "blr1",
		Bucket:   "medstore",
	})
	require.NoError(t, err)

	link, err := u.link("invoice-B-1.pdf")
	require.NoError(t, err)
	assert.Contains(t, link, "invoice-B-1.pdf")
	assert.Contains(t, link, "X-Amz-Signature=")
}
