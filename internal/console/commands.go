package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"hbnb/internal/domain"
	"hbnb/internal/storage"

	"go.uber.org/zap"
)

// Messages printed for malformed commands
const (
	msgClassMissing   = "** class name missing **"
	msgClassUnknown   = "** class doesn't exist **"
	msgIDMissing      = "** instance id missing **"
	msgNoInstance     = "** no instance found **"
	msgAttrMissing    = "** attribute name missing **"
	msgValueMissing   = "** value missing **"
	msgBadDictionary  = "** invalid dictionary **"
	msgUnknownSyntax  = "*** Unknown syntax: %s"
	msgNoHelp         = "*** No help on %s"
	helpListingHeader = "Documented commands (type help <topic>):"
)

// Handler runs a command with the raw text after the command name.
// Returning true ends the session.
type Handler func(c *Console, arg string) bool

// Command is a registered console command
type Command struct {
	Name    string
	Help    string
	Handler Handler
}

// commandRegistry holds all console commands by name
var commandRegistry map[string]*Command

func init() {
	commandRegistry = make(map[string]*Command)

	registerCommand(&Command{
		Name:    "quit",
		Help:    "Quit command to exit the program.",
		Handler: handleQuit,
	})
	registerCommand(&Command{
		Name:    "EOF",
		Help:    "EOF signal to exit the program.",
		Handler: handleEOF,
	})
	registerCommand(&Command{
		Name:    "help",
		Help:    `List available commands with "help" or detailed help with "help cmd".`,
		Handler: handleHelp,
	})
	registerCommand(&Command{
		Name: "create",
		Help: "Usage: create <class>\n" +
			"        Create a new class instance and print its id.",
		Handler: handleCreate,
	})
	registerCommand(&Command{
		Name: "show",
		Help: "Usage: show <class> <id> or <class>.show(<id>)\n" +
			"        Display the string representation of a class instance of a given id.",
		Handler: handleShow,
	})
	registerCommand(&Command{
		Name: "destroy",
		Help: "Usage: destroy <class> <id> or <class>.destroy(<id>)\n" +
			"        Delete a class instance of a given id.",
		Handler: handleDestroy,
	})
	registerCommand(&Command{
		Name: "all",
		Help: "Usage: all or all <class> or <class>.all()\n" +
			"        Display string representations of all instances of a given class.\n" +
			"        If no class is specified, displays all instantiated objects.",
		Handler: handleAll,
	})
	registerCommand(&Command{
		Name: "count",
		Help: "Usage: count <class> or <class>.count()\n" +
			"        Retrieve the number of instances of a given class.",
		Handler: handleCount,
	})
	registerCommand(&Command{
		Name: "update",
		Help: "Usage: update <class> <id> <attribute_name> <attribute_value> or\n" +
			"       <class>.update(<id>, <attribute_name>, <attribute_value>) or\n" +
			"       <class>.update(<id>, <dictionary>)\n" +
			"        Update a class instance of a given id by adding or updating\n" +
			"        a given attribute key/value pair or dictionary.",
		Handler: handleUpdate,
	})
}

func registerCommand(cmd *Command) {
	commandRegistry[cmd.Name] = cmd
}

// lookupCommand returns the command registered under name
func lookupCommand(name string) (*Command, bool) {
	cmd, ok := commandRegistry[name]
	return cmd, ok
}

// commandNames returns every registered name, sorted
func commandNames() []string {
	names := make([]string, 0, len(commandRegistry))
	for name := range commandRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func handleQuit(c *Console, _ string) bool {
	return true
}

func handleEOF(c *Console, _ string) bool {
	c.println("")
	return true
}

func handleHelp(c *Console, arg string) bool {
	topic := strings.TrimSpace(arg)
	if topic == "" {
		c.println(helpListingHeader)
		c.println(strings.Repeat("=", len(helpListingHeader)))
		c.println(strings.Join(commandNames(), "  "))
		return false
	}

	cmd, ok := lookupCommand(topic)
	if !ok {
		c.printf(msgNoHelp+"\n", topic)
		return false
	}
	c.println(cmd.Help)
	return false
}

func handleCreate(c *Console, arg string) bool {
	kind, _, ok := c.kindArg(arg)
	if !ok {
		return false
	}

	r, err := c.engine.Create(kind)
	if err != nil {
		c.fail(err)
		return false
	}
	if err := r.Save(); err != nil {
		c.fail(err)
		return false
	}
	c.println(r.ID())
	return false
}

func handleShow(c *Console, arg string) bool {
	r, _, ok := c.recordArg(arg)
	if !ok {
		return false
	}
	c.println(r.String())
	return false
}

func handleDestroy(c *Console, arg string) bool {
	r, _, ok := c.recordArg(arg)
	if !ok {
		return false
	}
	if err := c.engine.Delete(r.Kind(), r.ID()); err != nil {
		c.fail(err)
		return false
	}
	if err := c.engine.Save(); err != nil {
		c.fail(err)
	}
	return false
}

func handleAll(c *Console, arg string) bool {
	var kind domain.Kind
	if strings.TrimSpace(arg) != "" {
		k, _, ok := c.kindArg(arg)
		if !ok {
			return false
		}
		kind = k
	}

	records, err := c.engine.GetAll(kind)
	if err != nil {
		c.fail(err)
		return false
	}

	forms := make([]string, len(records))
	for i, r := range records {
		forms[i] = r.String()
	}
	out, err := marshalList(forms)
	if err != nil {
		c.fail(err)
		return false
	}
	c.println(out)
	return false
}

func handleCount(c *Console, arg string) bool {
	kind, _, ok := c.kindArg(arg)
	if !ok {
		return false
	}
	n, err := c.engine.Count(kind)
	if err != nil {
		c.fail(err)
		return false
	}
	c.println(strconv.Itoa(n))
	return false
}

func handleUpdate(c *Console, arg string) bool {
	r, rest, ok := c.recordArg(arg)
	if !ok {
		return false
	}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		attrs, err := parseDictionary(rest)
		if err != nil {
			c.println(msgBadDictionary)
			return false
		}
		c.update(r, attrs)
		return false
	}

	name, _, rest, ok := nextToken(rest)
	if !ok {
		c.println(msgAttrMissing)
		return false
	}
	value, quoted, _, ok := nextToken(rest)
	if !ok {
		c.println(msgValueMissing)
		return false
	}
	c.update(r, map[string]any{name: literal(value, quoted)})
	return false
}

// kindArg reads the class name that starts arg
func (c *Console) kindArg(arg string) (domain.Kind, string, bool) {
	name, _, rest, ok := nextToken(arg)
	if !ok {
		c.println(msgClassMissing)
		return "", "", false
	}
	kind, err := domain.ParseKind(name)
	if err != nil {
		c.println(msgClassUnknown)
		return "", "", false
	}
	return kind, rest, true
}

// recordArg reads a class name and id and resolves the live record
func (c *Console) recordArg(arg string) (domain.Record, string, bool) {
	kind, rest, ok := c.kindArg(arg)
	if !ok {
		return nil, "", false
	}
	id, _, rest, ok := nextToken(rest)
	if !ok {
		c.println(msgIDMissing)
		return nil, "", false
	}
	r, err := c.engine.Get(kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		c.println(msgNoInstance)
		return nil, "", false
	}
	if err != nil {
		c.fail(err)
		return nil, "", false
	}
	return r, rest, true
}

func (c *Console) update(r domain.Record, attrs map[string]any) {
	if err := c.engine.Update(r.Kind(), r.ID(), attrs); err != nil {
		c.fail(err)
	}
}

// fail reports an error that is not one of the fixed command messages
func (c *Console) fail(err error) {
	c.logger.Warn("command failed", zap.Error(err))
	c.printf("** %s **\n", err)
}

// literal converts an unquoted token to a number when it parses as a finite
// one. "nan" and "inf" stay text.
func literal(tok string, quoted bool) any {
	if quoted {
		return tok
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return tok
}

// parseDictionary decodes a JSON object, accepting single-quoted strings
func parseDictionary(s string) (map[string]any, error) {
	var attrs map[string]any
	err := json.Unmarshal([]byte(s), &attrs)
	if err != nil {
		err = json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &attrs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if attrs == nil {
		return nil, errors.New("parse dictionary: not an object")
	}
	return attrs, nil
}

func marshalList(items []string) (string, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
