package envvar

const (
	// LeafsenseEnv is the environment variable used to determine the environment
	LeafsenseEnv = "LEAFSENSE_ENV"

	// LeafsenseServerHTTPPort is the environment variable used to determine the HTTP port
	LeafsenseServerHTTPPort = "LEAFSENSE_SERVER_HTTP_PORT"

	// LeafsenseModelDir is the environment variable used to locate the model artifact directory
	LeafsenseModelDir = "LEAFSENSE_MODEL_DIR"

	// LeafsenseUploadDir is the environment variable used to locate the upload directory
	LeafsenseUploadDir = "LEAFSENSE_UPLOAD_DIR"
)
