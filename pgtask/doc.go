/*
Package pgtask runs sequences of queries on a single borrowed
connection, with well-defined result-shape expectations and correct
nested-transaction semantics.

There are tools for:
- one-shot queries with cardinality masks (One, Many, None, Any)
- tasks: multi-query units on one connection, auto-released
- transactions, including savepoint emulation for nested transactions
- lifecycle hooks (connect/disconnect/query/task/transact/error/extend)

The wire protocol, pooling and value formatting are collaborators
supplied through the Driver and Formatter interfaces; see the pqconn,
pgxconn and sqlfmt packages for implementations.
*/
package pgtask
