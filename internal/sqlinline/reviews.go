package sqlinline

const QUpsertReviewSession = `--sql 9e3d5c18-7a2b-4f60-8c91-d4b7e0a263f9
insert into review_sessions (id, platform, payload, created_at, updated_at)
values ($1, $2, $3, $4, $5)
on conflict (id) do update
set payload = excluded.payload,
    updated_at = excluded.updated_at;
`

const QSelectReviewSession = `--sql 51f7a6e2-c03d-4b89-a2e5-8f6d1c9b3074
select payload
from review_sessions
where id = $1;
`

const QDeleteReviewSession = `--sql e80b4d3a-16f9-4c27-b5a8-3d92c7e1f60b
delete from review_sessions
where id = $1;
`
