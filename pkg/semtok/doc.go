/*
Package semtok classifies formula tokens for highlighting.

	formula text
	     |
	     v
	+----------+   tokens    +----------+
	|  lexer   | ----------> |  semtok  |
	+----------+             +----------+
	                              |
	                   +----------+----------+
	                   |                     |
	              whole formula       tokens in a span

Token types:
  - number      (numeric literals, readonly)
  - variable    (cell references)
  - range       (cell ranges)
  - function    (function names)
  - operator    (+ - * / ^)
  - punctuation (parentheses and commas)

A "$" anywhere in a reference adds the absolute modifier.

Classification is lexical, so a formula with a syntax error still highlights
as long as it tokenizes.
*/
package semtok
