package extract

import "errors"

// ErrExtractorDisabled is returned by the no-op extractor. Callers normally
// check Enabled first and never see it.
var ErrExtractorDisabled = errors.New("extractor disabled: no LLM credential")

// ErrEmptyResponse is returned when the model reply holds no JSON object.
var ErrEmptyResponse = errors.New("empty extraction response")

// ErrMalformedResponse is returned when the model reply is not valid file info.
var ErrMalformedResponse = errors.New("malformed extraction response")
