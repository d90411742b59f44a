// Package blob fetches TLS material (connector key and certificate) from
// S3 object storage onto local disk before the install step.
package blob
