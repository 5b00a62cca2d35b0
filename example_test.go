package outmail_test

import (
	"fmt"
	"log"

	"github.com/hickar/outmail"
)

func Example() {
	// Configure the message and its transport session.
	builder := outmail.New()
	builder.SetHostName("localhost")
	if err := builder.SetFrom("from@example.com"); err != nil {
		log.Fatal(err)
	}
	if err := builder.AddTo("to@example.com"); err != nil {
		log.Fatal(err)
	}
	builder.SetSubject("Test Subject")
	builder.SetMsg("Test Message")

	// Build produces the immutable message exactly once; hand it and its
	// session to the delivery transport of your choice.
	msg, err := builder.Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(msg.Subject())
	fmt.Println(msg.From().Email())
	fmt.Println(msg.Session().Host())
	// Output:
	// Test Subject
	// from@example.com
	// localhost
}
