package types

// Envelope is a wire line in transit through the relay.
type Envelope struct {
	ID        string `json:"id,omitempty"`
	From      Target `json:"from"`
	To        Target `json:"to"`
	Line      string `json:"line"`
	Timestamp int64  `json:"timestamp"`
}

// Incoming is the result of decoding one inbound line.
type Incoming struct {
	Text      string     `json:"text"`
	Encrypted bool       `json:"encrypted"`
	Mode      CipherMode `json:"mode,omitempty"`
	Learned   bool       `json:"learned,omitempty"`
	Action    bool       `json:"action,omitempty"`
}

// Outgoing is the result of encoding one outbound line.
type Outgoing struct {
	Line      string     `json:"line"`
	Encrypted bool       `json:"encrypted"`
	Mode      CipherMode `json:"mode,omitempty"`
}

// KeyInfo describes a stored key without exposing it.
type KeyInfo struct {
	Target      Target     `json:"target"`
	Mode        CipherMode `json:"mode"`
	Fingerprint string     `json:"fingerprint"`
	Disabled    bool       `json:"disabled"`
}

// ExchangeOutcome reports what handling a key-exchange token did.
type ExchangeOutcome struct {
	Reply     string     `json:"reply,omitempty"`
	Completed bool       `json:"completed"`
	Mode      CipherMode `json:"mode,omitempty"`
}
