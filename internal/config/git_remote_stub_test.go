package config

import "testing"

func stubGitRemote(t *testing.T, url string, err error) {
	t.Helper()
	prev := gitRemoteGetter
	gitRemoteGetter = func(repoRoot string) (string, error) {
		return url, err
	}
	t.Cleanup(func() {
		gitRemoteGetter = prev
	})
}

func stubToken(t *testing.T, token string) {
	t.Helper()
	prev := tokenGetter
	tokenGetter = func() string {
		return token
	}
	t.Cleanup(func() {
		tokenGetter = prev
	})
}
