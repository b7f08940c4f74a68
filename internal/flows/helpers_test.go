package flows

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/MrEthical07/goSignin/extract"
	"github.com/MrEthical07/goSignin/internal/classify"
	"github.com/MrEthical07/goSignin/internal/dispatch"
	"github.com/MrEthical07/goSignin/internal/transporttest"
	"github.com/MrEthical07/goSignin/transport"
)

const (
	loginURL    = "https://accounts.google.com/ServiceLogin?service=androiddeveloper"
	authURL     = "https://accounts.google.com/ServiceLoginAuth?service=androiddeveloper"
	continueURL = "https://play.google.com/apps/publish"
	skipURL     = "https://accounts.google.com/signin/challenge/skip"
	baseURL     = "https://accounts.google.com/signin/challenge/"
	totpURL     = "https://accounts.google.com/signin/challenge/totp/2"
	promptURL   = "https://accounts.google.com/signin/challenge/az/1"
	smsURL      = "https://accounts.google.com/signin/challenge/ipp/3"
	bcURL       = "https://accounts.google.com/signin/challenge/bc/4"
	selectURL   = "https://accounts.google.com/signin/selectchallenge/1?TL=abc"
)

const loginFormPage = `<form action="/ServiceLoginAuth" method="post">
<input type="hidden" name="GALX" value="galx-1">
<input type="hidden" name="_utf8" value="☃">
<input type="email" name="Email" value="">
</form>`

const totpPage = `<html><body><h1>2-Step Verification</h1>
<p>Get a verification code from the Google Authenticator app</p>
<form method="post"><input type="hidden" name="challengeId" value="2"><input type="hidden" name="challengeType" value="6"><input type="hidden" name="TL" value="tl-1"><input type="text" name="Pin"></form>
</body></html>`

const promptPage = `<html><body><p>Google sent a prompt to sign in to your phone</p>
<div class="LJtPoc" data-api-key="api-key" data-tx-id="tx-1"></div>
<form><input type="hidden" name="challengeId" value="1"><input type="hidden" name="subAction" value="waitForTx"></form>
</body></html>`

const smsPage = `<html><body><p>A text message with a 6-digit verification code was just sent to <span class="DZNRQe">•••-•••-4411</span></p>
<form><input type="hidden" name="challengeId" value="3"><input type="hidden" name="SendMethod" value="SMS"><input type="text" name="Pin"></form>
<a>Resend code</a>
</body></html>`

const bcPage = `<html><body><p>Enter one of your 8-digit backup code</p>
<form><input type="hidden" name="challengeId" value="4"><input type="text" name="Pin"></form></body></html>`

const selectPage = `<html><body>
<ol id="challengePickerList">
 <li><form><input name="challengeId" value="1"><input name="challengeType" value="39"></form><span class="mSMaIe">Tap Yes on your phone Google prompt</span></li>
 <li><form><input name="challengeId" value="2"><input name="challengeType" value="6"></form><span class="mSMaIe">Get a verification code from the Google Authenticator app</span></li>
 <li><form><input name="challengeId" value="3"><input name="SendMethod" value="SMS"></form><span class="mSMaIe">Get a verification code at (•••) •••-••12 text message</span></li>
</ol>
</body></html>`

const (
	promptLabel = "Tap Yes on your phone Google prompt"
	smsLabel    = "Get a verification code at (•••) •••-••12 text message"
)

func wrongCodePage(url string) transport.Response {
	return transport.Response{URL: url, Body: `<form><input type="hidden" name="challengeId" value="2"></form><span id="errorMsg">Wrong code. Try again.</span>`}
}

type recordedArtifact struct {
	step    string
	content string
}

type recordingSink struct {
	mu    sync.Mutex
	items []recordedArtifact
}

func (s *recordingSink) Record(_ context.Context, step, content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, recordedArtifact{step: step, content: content})
	return fmt.Sprintf("artifact-%d", len(s.items))
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func testDeps(script *transporttest.Script, sink *recordingSink) Deps {
	markers := extract.DefaultMarkers()
	return Deps{
		Transport:   script,
		Extractor:   extract.Default(),
		Rules:       classify.Rules{Markers: markers, Threshold: 7, LoginURL: loginURL},
		Dispatcher:  dispatch.New(dispatch.DefaultConfig()),
		Diagnostics: sink,
		Endpoints: Endpoints{
			LoginURL:         loginURL,
			AuthURL:          authURL,
			ContinueURL:      continueURL,
			SkipURL:          skipURL,
			ChallengeBaseURL: baseURL,
		},
		Fields: Fields{Email: "Email", Password: "Passwd", Continue: "continue", ChallengeID: "challengeId"},
	}
}

func get(url string, resp transport.Response) transporttest.Step {
	return transporttest.Step{Verb: "GET", URL: url, Response: resp}
}

func post(url string, resp transport.Response) transporttest.Step {
	return transporttest.Step{Verb: "POST", URL: url, Response: resp}
}

// enumerationSteps scripts a successful alternate-method lookup from challengeURL.
func enumerationSteps(challengeURL, challengeBody string) []transporttest.Step {
	return []transporttest.Step{
		get(challengeURL, transport.Response{Body: challengeBody}),
		post(skipURL, transport.Response{URL: selectURL}),
		get(selectURL, transport.Response{Body: selectPage}),
	}
}

func requireScriptDone(t *testing.T, s *transporttest.Script) {
	t.Helper()
	if s.Remaining() != 0 {
		t.Fatalf("expected every scripted step to be used, %d left", s.Remaining())
	}
}
