package mediawiki

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEditConflict matches an APIError with code "editconflict"
	ErrEditConflict = errors.New("mediawiki: edit conflict")

	// ErrMissingPage is returned when a page that must exist does not
	ErrMissingPage = errors.New("mediawiki: page does not exist")

	// ErrLoginFailed is returned when action=login does not succeed
	ErrLoginFailed = errors.New("mediawiki: login failed")
)

// APIError is the error object returned by the Action API
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki: %s: %s", e.Code, e.Info)
}

// Is lets errors.Is(err, ErrEditConflict) work on API errors
func (e *APIError) Is(target error) bool {
	return target == ErrEditConflict && e.Code == "editconflict"
}

// isSaveErrorCode reports codes that refuse a single edit. The run can go
// on with the next page after one of these.
func isSaveErrorCode(code string) bool {
	switch code {
	case "editconflict", "pagedeleted", "missingtitle", "badmd5", "editfailure":
		return true
	case "permissiondenied", "writeapidenied", "noedit", "noedit-anon",
		"assertuserfailed", "assertbotfailed":
		return true
	case "protectedpage", "cascadeprotected", "protectedtitle",
		"protectednamespace", "protectednamespace-interface", "customcssjsprotected":
		return true
	case "blocked", "autoblocked":
		return true
	case "spamblacklist", "titleblacklist-forbidden", "contenttoobig", "confirmedit-captcha-needed":
		return true
	}
	return strings.HasPrefix(code, "abusefilter-")
}

// IsSaveError reports whether err is a refusal to save a page, as opposed
// to a transport or protocol failure.
func IsSaveError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return isSaveErrorCode(apiErr.Code)
}
