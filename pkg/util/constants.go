package util

const (
	Algorithm                 = "AWS4-HMAC-SHA256"
	TimeFormatISO8601DateTime = "20060102T150405Z"
	TimeFormatISO8601Date     = "20060102"
	RequestTypeAWS4           = "aws4_request"
	HashUnsignedPayload       = "UNSIGNED-PAYLOAD"
	HashEmptyPayload          = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)
