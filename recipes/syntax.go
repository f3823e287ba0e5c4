package recipes

// SyntaxHelp returns the DSL quick reference.
func SyntaxHelp() string { return syntaxHelp }

const syntaxHelp = `Schema DSL quick reference

Basic types
  string, str            string
  text                   long-form string
  int, integer           integer
  number, num, float,
  double, decimal        number
  bool, boolean          boolean

Special types
  email                  format: email
  url, uri               format: uri
  datetime               format: date-time
  date                   format: date
  uuid                   format: uuid
  phone, tel             x-format: phone

Fields
  name                   string field (type defaults to string)
  name:string            explicit type
  website:url?           optional field (also written website?:url)
  "first name":string    quoted field name
  Fields are separated by commas or line breaks; '#' starts a comment.

Arrays
  [string]               array of strings
  [{name, email}]        array of objects
  [name:string, age:int] array of objects, braces omitted
  [string](max=5)        at most 5 items
  [string(max=5)]        each item at most 5 characters
  array(string, max=5)   alternative spelling, also list(...)

Enums
  status:enum(active,inactive)
  priority:choice(low,high)      choice and select are aliases of enum
  label:enum("in progress", done)

Unions
  id:string|uuid
  note:text|null         nullable

Constraints
  name:string(min=1,max=100)     length
  age:int(0,120)                 positional (min, max)
  code:string(10)                a single positional value is the max
  rating:number(min=1.0,max=5.0) value range
  minLength/maxLength, minimum/maximum, minItems/maxItems are accepted too.

Objects
  {name:string, age:int}
  user:{name, email, phone?}
`
