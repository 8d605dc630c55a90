// Package assetsync mirrors a local asset directory into an object store by
// content-hash diff: unchanged files are skipped, new and modified files are
// uploaded, and orphaned remote objects can optionally be deleted.
//
// The remote side is abstracted by ObjectStorage, whose ETag contract is the
// hex MD5 of the object body. Any S3-compatible store satisfies it for
// single-part uploads; DirStorage backs it with a local directory for tests
// and offline use.
package assetsync
