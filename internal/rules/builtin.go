package rules

// Canned responses. These must stay byte-stable: they are answers the
// institution guarantees regardless of embedding drift.
const (
	GreetingResponse = "Hello! How can I help you with information about NIT Jalandhar?"

	HowAreYouResponse = "I'm doing well, thank you for asking.\n" +
		"How can I assist you with information about NIT Jalandhar today?"

	WhoAreYouResponse = "I am the NIT Jalandhar virtual assistant.\n" +
		"I have access to curated institutional data and documents.\n" +
		"I can help you with admissions, academics, placements, hostels, and campus life."

	CapabilitiesResponse = "I can provide information related to NIT Jalandhar such as:\n" +
		"- Admissions (B.Tech, M.Tech, MBA, PhD)\n" +
		"- Academic programs and departments\n" +
		"- Placements & recruiting\n" +
		"- Campus facilities and hostels\n" +
		"- Student life and activities\n" +
		"- Faculty and administration\n" +
		"- Research opportunities\n\n" +
		"Feel free to ask!"

	ThanksResponse = "You're welcome. Let me know if you need any more information."

	AdmissionClarification = "Admissions to NIT Jalandhar are offered for multiple programs.\n\n" +
		"Please specify:\n" +
		"- B.Tech (Undergraduate)\n" +
		"- M.Tech (Postgraduate)\n" +
		"- MBA\n" +
		"- PhD\n\n" +
		"Example: 'B.Tech admission process'"

	BTechProcedure = "Here is the B.Tech admission process for NIT Jalandhar:\n\n" +
		"1. Appear in JEE Main and obtain a valid rank\n" +
		"2. Participate in JoSAA counseling (and CSAB rounds if applicable)\n" +
		"3. Register on the JoSAA portal and fill course choices\n" +
		"4. Seats are allocated based on rank, category, and availability\n\n" +
		"Important: follow the official JoSAA portal (josaa.nic.in) for updates."
)

// programTokens are the program names the admission guard recognizes.
// A query mentioning "admission" without one of these gets the clarification.
var programTokens = []string{"btech", "b.tech", "mtech", "m.tech", "mba", "phd"}

// ProgramTokens returns the recognized program names.
func ProgramTokens() []string {
	out := make([]string, len(programTokens))
	copy(out, programTokens)
	return out
}

// Builtin returns the production rule list in priority order:
// small talk first, then the admission clarification, then procedures.
func Builtin() []Rule {
	return []Rule{
		{
			Name:     "greeting",
			Match:    func(q string) bool { return equalsAny(q, "hi", "hello", "hey", "hii") },
			Response: GreetingResponse,
		},
		{
			Name:     "how-are-you",
			Match:    func(q string) bool { return containsAny(q, "how are you") },
			Response: HowAreYouResponse,
		},
		{
			Name:     "who-are-you",
			Match:    func(q string) bool { return containsAny(q, "who are you") },
			Response: WhoAreYouResponse,
		},
		{
			Name:     "capabilities",
			Match:    func(q string) bool { return containsAny(q, "what can you do") },
			Response: CapabilitiesResponse,
		},
		{
			Name:     "thanks",
			Match:    func(q string) bool { return equalsAny(q, "thanks", "thank you") },
			Response: ThanksResponse,
		},
		{
			Name: "admission-clarification",
			Match: func(q string) bool {
				return containsAny(q, "admission") && !containsAny(q, programTokens...)
			},
			Response: AdmissionClarification,
		},
		{
			Name: "btech-procedure",
			Match: func(q string) bool {
				return containsAny(q, "btech", "b.tech") &&
					containsAny(q, "how", "process", "admission", "apply")
			},
			Response: BTechProcedure,
		},
	}
}
