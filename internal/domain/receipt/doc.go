// Package receipt contains the hotel booking receipt domain: the request a
// guest's receipt is printed from, the fixed page layout, the print job
// lifecycle and the error taxonomy shared by every printing component.
package receipt
