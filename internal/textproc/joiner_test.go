package textproc

import "testing"

func TestJoinBrokenWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"hyphenated line break", "wort-\nbruch", "wortbruch"},
		{"hyphenated umlaut", "wortä-\nbruch", "wortäbruch"},
		{"hyphen with surrounding blanks", "Wort-  \n  bruch", "Wortbruch"},
		{"crlf hyphen", "Bundes-\r\nregierung", "Bundesregierung"},
		{"plain newline", "Zeile eins\nZeile zwei", "Zeile eins Zeile zwei"},
		{"crlf newline", "Zeile eins\r\nZeile zwei", "Zeile eins Zeile zwei"},
		{"newline then space", "Zeile eins\n Zeile zwei", "Zeile eins Zeile zwei"},
		{"whitespace run", "viel   zu\t\tweit", "viel zu weit"},
		{"doubled exclamation", "Ende!!", "Ende!"},
		{"mixed marks", "Was?!", "Was?"},
		{"marks separated by space", "Ja, , nein", "Ja, nein"},
		{"triple mark is one pass", "Wow!!!", "Wow!!"},
		{"ellipsis in quotes", `Sie sagte: "..."`, `Sie sagte: "..."`},
		{"trailing ellipsis", "Warte...", "Warte..."},
		{"url kept", "Siehe http://example.com/a..b heute", "Siehe http://example.com/a..b heute"},
		{"https url kept", "Mehr auf https://example.de/x,,y", "Mehr auf https://example.de/x,,y"},
		{"missing final period", "Das Ende\n", "Das Ende. "},
		{"final period present", "Das Ende.\n", "Das Ende. "},
		{"final digit", "Seite 12\n", "Seite 12 "},
		{"final umlaut", "Es war schön \n", "Es war schön. "},
		{"no trailing whitespace", "Das Ende", "Das Ende"},
		{"hyphen without break", "E-Mail Adresse", "E-Mail Adresse"},
		{
			"broken word mid sentence",
			"Der Mann geh-\nt nach Hause. er kam spät",
			"Der Mann geht nach Hause. er kam spät",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinBrokenWords(tt.input)
			if got != tt.want {
				t.Errorf("JoinBrokenWords(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestJoinBrokenWords_NoOpOnCleanText(t *testing.T) {
	inputs := []string{
		"Der Mann geht nach Hause.",
		"Die Stadt plant einen Neubau, sagt der Sprecher.",
		"Kurz: alles gut",
	}

	for _, in := range inputs {
		if got := JoinBrokenWords(in); got != in {
			t.Errorf("JoinBrokenWords(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestJoinBrokenWords_NoLineBreaksInOutput(t *testing.T) {
	in := "erste\nzweite\r\ndritte-\nZeile\n\nvierte"
	got := JoinBrokenWords(in)
	for _, r := range got {
		if r == '\n' || r == '\r' {
			t.Fatalf("JoinBrokenWords(%q) = %q, contains a line break", in, got)
		}
	}
}
