// Package tutorial tracks the tasks a tutorial is made of and which of their
// content variants a reader should see. Tasks are declared in tutorial order;
// the current task decides whether a task prints its completed code or the
// stripped-down starting point.
package tutorial
