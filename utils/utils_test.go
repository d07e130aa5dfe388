package utils

import (
	"testing"
)

var unquotePythonStringTests = []struct {
	input          string
	expectedOutput string
}{
	{"'bob'", "bob"},
	{"u'bob'", "bob"},
	{`"bob"`, "bob"},
	{" 'secret'}", "secret"},
	{"None", "None"},
	{"None}", "None"},
	{"42", "42"},
	{"'", "'"},
}

func TestUnquotePythonString(t *testing.T) {
	for _, testCase := range unquotePythonStringTests {
		resultString := UnquotePythonString(testCase.input)

		if resultString != testCase.expectedOutput {
			t.Errorf("UnquotePythonString(%v) failed! Wanted: %v, got: %v", testCase.input, testCase.expectedOutput, resultString)
		}
	}
}

func TestLogAndReturnError(t *testing.T) {
	err := LogAndReturnError("Error doing the thing", nil)
	if err == nil || err.Error() != "Error doing the thing" {
		t.Errorf("LogAndReturnError() failed! Wanted: %v, got: %v", "Error doing the thing", err)
	}
}
