// Package blob provides object storage for template attachments backed
// by S3-compatible services.
//
// # Usage
//
//	store, err := blob.New(blob.Config{
//		Bucket:    "herald-attachments",
//		AccessKey: "...",
//		SecretKey: "...",
//		Endpoint:  "http://localhost:9000", // MinIO
//		PathStyle: true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key := blob.AttachmentKey(templateID, "invoice.pdf")
//	if err := store.Put(ctx, key, "application/pdf", bytes.NewReader(data), int64(len(data))); err != nil {
//		log.Fatal(err)
//	}
//
// Signed URLs allow time-limited downloads without exposing credentials:
//
//	url, err := store.SignedURL(ctx, key, 15*time.Minute)
package blob
