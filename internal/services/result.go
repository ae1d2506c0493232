package services

// ResultKind classifies the outcome of an account flow.
type ResultKind string

const (
	ResultSuccess            ResultKind = "success"
	ResultTokenNotFound      ResultKind = "token_not_found"
	ResultTokenExpired       ResultKind = "token_expired"
	ResultAccountNotFound    ResultKind = "account_not_found"
	ResultInvalidInput       ResultKind = "invalid_input"
	ResultEmailTaken         ResultKind = "email_taken"
	ResultInvalidCredentials ResultKind = "invalid_credentials"
	ResultVerificationSent   ResultKind = "verification_sent"
)

// Messages returned to callers. "Email dows not exist!" is the established client-facing text.
const (
	MsgTokenNotFound      = "Token does not exist!"
	MsgTokenExpired       = "Token has expired!"
	MsgVerifyNoAccount    = "Email dows not exist!"
	MsgEmailVerified      = "Email verified!"
	MsgInvalidEmail       = "Invalid email!"
	MsgEmailNotFound      = "Email not found!"
	MsgResetEmailSent     = "Reset email sent!"
	MsgInvalidFields      = "Invalid fields!"
	MsgEmailTaken         = "Email already in use!"
	MsgConfirmationSent   = "Confirmation email sent!"
	MsgMissingToken       = "Missing token!"
	MsgInvalidToken       = "Invalid token!"
	MsgEmailDoesNotExist  = "Email does not exist!"
	MsgPasswordUpdated    = "Password updated!"
	MsgInvalidCredentials = "Invalid credentials!"
	MsgSignedIn           = "Signed in!"
)

// Result is the outcome of a flow that ran to a recognised terminal branch.
// Email is set on success; Detail carries the offending token or input on failures.
type Result struct {
	Kind    ResultKind
	Message string
	Email   string
	Detail  string
}

// OK reports whether the flow completed its happy path.
func (r Result) OK() bool {
	return r.Kind == ResultSuccess || r.Kind == ResultVerificationSent
}

func success(message, email string) Result {
	return Result{Kind: ResultSuccess, Message: message, Email: email}
}

func failure(kind ResultKind, message, detail string) Result {
	return Result{Kind: kind, Message: message, Detail: detail}
}
