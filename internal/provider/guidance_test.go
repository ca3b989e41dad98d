package provider

import "testing"

func TestClassifyRejection(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		code        int
		description string
		want        Guidance
	}{
		{name: "chat not found", code: 400, description: "Bad Request: chat not found", want: GuidanceChatNotFound},
		{name: "chat not found upper case", code: 400, description: "BAD REQUEST: CHAT NOT FOUND", want: GuidanceChatNotFound},
		{name: "other bad request", code: 400, description: "Bad Request: message text is empty", want: GuidanceNone},
		{name: "chat not found wording under 404", code: 404, description: "chat not found", want: GuidanceNone},
		{name: "blocked by user", code: 403, description: "Forbidden: bot was blocked by the user", want: GuidanceBotBlocked},
		{name: "kicked from group", code: 403, description: "Forbidden: bot was kicked from the group chat", want: GuidanceForbidden},
		{name: "403 without description", code: 403, description: "", want: GuidanceForbidden},
		{name: "unauthorized", code: 401, description: "Unauthorized", want: GuidanceUnauthorized},
		{name: "401 with other wording", code: 401, description: "token revoked", want: GuidanceNone},
		{name: "server error", code: 500, description: "Internal Server Error", want: GuidanceNone},
		{name: "zero code", code: 0, description: "", want: GuidanceNone},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ClassifyRejection(tc.code, tc.description); got != tc.want {
				t.Fatalf("ClassifyRejection(%d, %q) = %q, want %q", tc.code, tc.description, got, tc.want)
			}
		})
	}
}
