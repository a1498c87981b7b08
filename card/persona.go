// Package card holds the state of the accessible persona card: its content,
// the high-contrast and zoom settings, and the live announcement line.
package card

// Section is one heading with its body text
type Section struct {
	Heading string
	Content string
}

// Persona is the card content
type Persona struct {
	Title    string
	Sections []Section
}

// DefaultPersona returns the card's built-in persona
func DefaultPersona() Persona {
	return Persona{
		Title: "Global citizen with low vision",
		Sections: []Section{
			{
				Heading: "Background and Vision Impairment",
				Content: "These days, Singapore is a center of the world, and Vishnu is one of its global citizens. " +
					"After graduating from one of India’s technology colleges, he went to a postgraduate program at the " +
					"National University of Malaysia. His work on visualizing data landed him a job with a multinational " +
					"medical technology company. Vishnu was diagnosed with glaucoma and his eyes have been getting steadily " +
					"worse, despite treatment. He can adjust his monitor and his phone, but many of the technical programs " +
					"he uses don’t have many options, so he has started using a screen magnifier and high-contrast mode.",
			},
			{
				Heading: "Technology Use and Accessibility Challenges",
				Content: "He has several mobile phones. One connects him to his family in India, one is for work, and one " +
					"is for personal use. He’s lucky to have good bandwidth at home and at work. Some of his colleagues " +
					"from the university live in places with much more erratic connections. Even so, downloading large " +
					"pages from European or U.S. servers can be slow. But, if he had one wish, it would be that people " +
					"would write technical papers and websites more clearly. His English is good, but idiomatic " +
					"expressions can still be hard.",
			},
		},
	}
}
