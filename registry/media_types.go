package registry

// Media types and annotations for packages in OCI registries.
const (
	// ArtifactType identifies class data packages as an OCI 1.1 artifact type.
	ArtifactType = "application/vnd.classdata.tpk.v1"

	// MediaTypeLayer is the media type of the zstd-compressed package layer.
	MediaTypeLayer = "application/vnd.classdata.tpk.layer.v1+zstd"

	// AnnotationFlavor records the build flavor of the package.
	AnnotationFlavor = "io.classdata.flavor"

	// AnnotationUncompressedDigest records the digest of the encoded package
	// before layer compression.
	AnnotationUncompressedDigest = "io.classdata.uncompressed.digest"

	// AnnotationFileCount records the number of embedded class databases.
	AnnotationFileCount = "io.classdata.file.count"
)
