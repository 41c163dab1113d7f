package config

import "strings"

// MemberName returns the configured display name for a login, or the login
func (c *Config) MemberName(login string) string {
	if m, ok := c.TeamMembers[login]; ok && m.Name != "" {
		return m.Name
	}
	return login
}

// SlackMention returns a Slack mention for a login when a Slack ID is
// configured, and "@login" otherwise.
func (c *Config) SlackMention(login string) string {
	if m, ok := c.TeamMembers[login]; ok && m.SlackID != "" {
		return "<@" + m.SlackID + ">"
	}
	return "@" + login
}

// ReviewerMentions joins mentions for the given logins
func (c *Config) ReviewerMentions(logins []string) string {
	if len(logins) == 0 {
		return "No reviewers assigned"
	}
	mentions := make([]string, len(logins))
	for i, l := range logins {
		mentions[i] = c.SlackMention(l)
	}
	return strings.Join(mentions, ", ")
}
