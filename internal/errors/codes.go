package errors

// Error codes for the hlc pipeline.
// These codes are used in error messages and logs to provide consistent
// error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Parse errors
// E0100-E0199: Verification errors
// E0200-E0299: Option/range errors
// E0300-E0399: Target resolution and emission errors
// E0400-E0499: Link errors
// E0500-E0599: Handle and artifact lifecycle errors

const (
	// E0001: Textual IR could not be parsed
	ErrorParseText = "E0001"

	// E0002: Bitcode container is malformed (bad magic, version, or body)
	ErrorParseBitcode = "E0002"

	// E0100: Module failed structural verification
	ErrorVerifyModule = "E0100"

	// E0200: Optimization or size level outside its valid range
	ErrorLevelRange = "E0200"

	// E0300: No target machine registered for the requested architecture
	ErrorNoTarget = "E0300"

	// E0301: Target machine cannot emit the requested artifact kind
	ErrorUnsupportedArtifact = "E0301"

	// E0400: Merging the source module into the destination failed
	ErrorLinkConflict = "E0400"

	// E0500: Module handle already destroyed or never valid
	ErrorHandleDestroyed = "E0500"

	// E0501: Artifact released more than once
	ErrorArtifactReleased = "E0501"
)
