package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// validatorFn is the signature every "valid" tag resolves to: given the
// field value and the tag's parameter (the part after ':'), it returns
// whether the value passes and, if not, a message template containing a
// literal "%s" placeholder the caller substitutes with the field name.
type validatorFn func(value interface{}, param string) (bool, string)

func validRequired(value interface{}, _ string) (bool, string) {
	if IsNotEmpty(value) {
		return true, ""
	}
	return false, "The %s field is required"
}

func validNumeric(value interface{}, _ string) (bool, string) {
	if IsNumeric(value) {
		return true, ""
	}
	return false, "The %s must be numeric"
}

func validAlpha(value interface{}, _ string) (bool, string) {
	if IsAlpha(value) {
		return true, ""
	}
	return false, "The %s may only contain letters"
}

func validAlphaNum(value interface{}, _ string) (bool, string) {
	if IsAlphanumeric(value) {
		return true, ""
	}
	return false, "The %s may only contain letters and numbers"
}

func validAlphaNumSpace(value interface{}, _ string) (bool, string) {
	if IsAlphanumericSpace(value) {
		return true, ""
	}
	return false, "The %s may only contain letters, numbers and spaces"
}

func validAlphaSpace(value interface{}, _ string) (bool, string) {
	if IsAlphaSpace(value) {
		return true, ""
	}
	return false, "The %s may only contain letters and spaces"
}

func validEmail(value interface{}, _ string) (bool, string) {
	if IsEmail(value) {
		return true, ""
	}
	return false, "The %s must be a valid email address"
}

func validLatitude(value interface{}, _ string) (bool, string) {
	if IsLatitude(value) {
		return true, ""
	}
	return false, "The %s must be a valid latitude"
}

func validLongitude(value interface{}, _ string) (bool, string) {
	if IsLongitude(value) {
		return true, ""
	}
	return false, "The %s must be a valid longitude"
}

func validURL(value interface{}, _ string) (bool, string) {
	if IsURL(value) {
		return true, ""
	}
	return false, "The %s format is invalid"
}

func validJSON(value interface{}, _ string) (bool, string) {
	if IsJSON(value) {
		return true, ""
	}
	return false, "The %s must be a valid JSON string"
}

// paramBound resolves a tag parameter to a numeric bound: a parseable
// number is used directly, otherwise the parameter's own rune length
// stands in for it (so "range:abc,abcdefg" bounds by string length).
func paramBound(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return float64(utf8.RuneCountInString(s))
}

func validLte(value interface{}, param string) (bool, string) {
	if dataLength(value) <= paramBound(param) {
		return true, ""
	}
	return false, "The %s must be less than or equal to " + param
}

func validGte(value interface{}, param string) (bool, string) {
	if dataLength(value) >= paramBound(param) {
		return true, ""
	}
	return false, "The %s must be greater than or equal to " + param
}

func validLt(value interface{}, param string) (bool, string) {
	if dataLength(value) < paramBound(param) {
		return true, ""
	}
	return false, "The %s must be less than " + param
}

func validGt(value interface{}, param string) (bool, string) {
	if dataLength(value) > paramBound(param) {
		return true, ""
	}
	return false, "The %s must be greater than " + param
}

func validRange(value interface{}, param string) (bool, string) {
	parts := strings.SplitN(param, ",", 2)
	if len(parts) != 2 {
		return false, "The %s range is misconfigured"
	}
	min, max := paramBound(parts[0]), paramBound(parts[1])
	if l := dataLength(value); l >= min && l <= max {
		return true, ""
	}
	return false, "The %s must be between " + parts[0] + " and " + parts[1]
}

func validContains(value interface{}, param string) (bool, string) {
	if IsContains(value, param) {
		return true, ""
	}
	return false, "The %s must contain " + param
}

func validMatch(value interface{}, param string) (bool, string) {
	if IsMatches(value, param) {
		return true, ""
	}
	return false, "The %s format is invalid"
}

func validSame(value interface{}, param string) (bool, string) {
	if IsSame(value, param) {
		return true, ""
	}
	return false, "The %s does not match"
}

func validIn(value interface{}, param string) (bool, string) {
	if IsIn(value, strings.Split(param, ",")...) {
		return true, ""
	}
	return false, "The %s is not a valid value"
}

func validNotIn(value interface{}, param string) (bool, string) {
	if IsNotIn(value, strings.Split(param, ",")...) {
		return true, ""
	}
	return false, "The %s is not a valid value"
}
