package domain

import (
	"testing"
	"time"
)

var extractorBase = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func msgAt(text string, role AuthorRole, minutes int) Message {
	return Message{
		Text:       text,
		Timestamp:  extractorBase.Add(time.Duration(minutes) * time.Minute),
		AuthorRole: role,
	}
}

func TestExtractEmptyMessages(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	set := ex.Extract(nil)
	for _, rule := range DefaultRules() {
		if set.Matched(rule.Category) {
			t.Errorf("category %q matched on empty input", rule.Category)
		}
	}
}

func TestExtractSkipsEmptyText(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	set := ex.Extract([]Message{
		msgAt("", RoleTeam, 0),
		msgAt("   ", RoleExternal, 1),
	})
	if set.Matched(CategoryContractSigned) {
		t.Error("blank messages must not produce evidence")
	}
}

func TestExtractBilingualMatching(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	english := ex.Extract([]Message{msgAt("the contract is signed, kicking off next week", RoleTeam, 0)})
	if !english.Matched(CategoryContractSigned) {
		t.Error("English contract-signed phrasing should match")
	}

	russian := ex.Extract([]Message{msgAt("Договор подписан, спасибо!", RoleExternal, 0)})
	if !russian.Matched(CategoryContractSigned) {
		t.Error("Russian contract-signed phrasing should match")
	}
}

func TestQuestionnaireRequiresTeamAuthor(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	fromClient := ex.Extract([]Message{msgAt("please fill in the brief", RoleExternal, 0)})
	if fromClient.Matched(CategoryQuestionnaireSent) {
		t.Error("questionnaire-sent must require a team author")
	}

	fromTeam := ex.Extract([]Message{msgAt("please fill in the brief", RoleTeam, 0)})
	if !fromTeam.Matched(CategoryQuestionnaireSent) {
		t.Error("team-authored questionnaire message should match")
	}
}

func TestClientProvidedDataNeedsTwoHints(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	oneHint := ex.Extract([]Message{
		msgAt("here are the answers", RoleExternal, 0),
	})
	if oneHint.Matched(CategoryClientProvidedData) {
		t.Error("a single hint must not count as client-provided data")
	}

	twoHints := ex.Extract([]Message{
		msgAt("here are the answers", RoleExternal, 0),
		msgAt("we also filled out the questionnaire", RoleExternal, 5),
	})
	if !twoHints.Matched(CategoryClientProvidedData) {
		t.Error("two corroborating hints should count as client-provided data")
	}

	teamHints := ex.Extract([]Message{
		msgAt("here are the answers", RoleTeam, 0),
		msgAt("we filled out the questionnaire", RoleTeam, 5),
	})
	if teamHints.Matched(CategoryClientProvidedData) {
		t.Error("team-authored messages must not count as client data")
	}
}

func TestPaymentConfirmedExclusions(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	falsePositive := ex.Extract([]Message{
		msgAt("we should run paid promotion and paid posts", RoleExternal, 0),
	})
	if falsePositive.Matched(CategoryPaymentConfirmed) {
		t.Error("paid-media chatter must not count as payment confirmation")
	}

	realConfirmation := ex.Extract([]Message{
		msgAt("payment received, thanks!", RoleTeam, 0),
	})
	if !realConfirmation.Matched(CategoryPaymentConfirmed) {
		t.Error("explicit payment confirmation should match")
	}
}

func TestLastMatchedAtIsMostRecent(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	set := ex.Extract([]Message{
		msgAt("payment received", RoleTeam, 0),
		msgAt("payment confirmed on our side too", RoleExternal, 30),
		msgAt("unrelated", RoleExternal, 60),
	})

	want := extractorBase.Add(30 * time.Minute)
	if got := set.LastMatchedAt(CategoryPaymentConfirmed); !got.Equal(want) {
		t.Errorf("expected last match at %v, got %v", want, got)
	}
}

func TestExtractOrderIndependent(t *testing.T) {
	ex := NewExtractor(DefaultRules())

	msgs := []Message{
		msgAt("we have not received payment yet", RoleTeam, 60),
		msgAt("payment received, thanks", RoleTeam, 10),
		msgAt("contract signed", RoleTeam, 0),
	}
	reversed := []Message{msgs[2], msgs[1], msgs[0]}

	a := ex.Extract(msgs)
	b := ex.Extract(reversed)

	for _, cat := range []Category{CategoryPaymentConfirmed, CategoryPaymentNegated, CategoryContractSigned} {
		if a.Matched(cat) != b.Matched(cat) || !a.LastMatchedAt(cat).Equal(b.LastMatchedAt(cat)) {
			t.Errorf("category %q extraction depends on slice order", cat)
		}
	}
}
